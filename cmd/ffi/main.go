// Command ffi builds the C-callable boundary this module exposes to a
// host process, mirroring price-publisher's lib.rs: three extern "C"
// functions (update_multiple_assets, get_latest_update, get_chain_id)
// backed by a lazily-started runtime held for the process's lifetime.
//
// Build as a C shared library with:
//
//	go build -buildmode=c-shared -o libudfpublisher.so ./cmd/ffi
package main

/*
#include <stdint.h>
#include <stddef.h>

typedef struct {
	uint8_t r[32];
	uint8_t s[32];
	uint8_t v;
} ecdsa_signature_t;

typedef struct {
	uint8_t data_key[32];
	const uint8_t (*merkle_proof)[32];
	size_t merkle_proof_len;
	uint8_t price[32];
	uint64_t timestamp;
} multiple_update_data_t;

typedef struct {
	uint8_t merkle_root[32];
	const ecdsa_signature_t *signatures;
	size_t signatures_len;
	const multiple_update_data_t *updates;
	size_t updates_len;
} merkle_root_update_multiple_t;

typedef struct {
	uint8_t price[32];
	uint64_t timestamp;
} latest_update_t;
*/
import "C"

import (
	"context"
	"os"
	"sync"
	"time"
	"unsafe"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/bootstrap"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/config"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/ffi"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/logger"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

var (
	bridgeOnce sync.Once
	bridge     *ffi.Bridge
)

// runtime lazily builds the process-wide Bridge on first use, the Go
// analogue of lib.rs's once_cell::sync::Lazy<PricePublisherRuntime>.
func runtime() *ffi.Bridge {
	bridgeOnce.Do(func() {
		configPath := os.Getenv("ENT_SOLANA_PUBLISHER_CONFIG")
		if configPath == "" {
			configPath = "config.yml"
		}

		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
		if err != nil {
			panic(err)
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			l.Sugar().Fatalw("failed to read publisher config", "path", configPath, "error", err)
		}

		rt, err := bootstrap.Build(context.Background(), cfg, l)
		if err != nil {
			l.Sugar().Fatalw("failed to build publisher runtime", "error", err)
		}

		ctx := context.Background()
		go rt.Dispatcher.Run(ctx, rt.Queue)

		bridge = ffi.NewBridge(rt.Queue, rt.Reader, cfg.Solana.ChainID, l)
	})
	return bridge
}

//export update_multiple_assets
func update_multiple_assets(data *C.merkle_root_update_multiple_t) {
	if data == nil {
		return
	}

	signatures := (*[1 << 20]C.ecdsa_signature_t)(unsafe.Pointer(data.signatures))[:data.signatures_len:data.signatures_len]
	updates := (*[1 << 20]C.multiple_update_data_t)(unsafe.Pointer(data.updates))[:data.updates_len:data.updates_len]

	msg := types.MultipleUpdateMessage{
		MerkleRoot: *(*[32]byte)(unsafe.Pointer(&data.merkle_root)),
		DataFeeds:  make([]types.DataFeed, len(updates)),
		Signatures: make([]types.TransmitterSignature, len(signatures)),
	}
	for i, sig := range signatures {
		msg.Signatures[i] = types.TransmitterSignature{
			R: *(*[32]byte)(unsafe.Pointer(&sig.r)),
			S: *(*[32]byte)(unsafe.Pointer(&sig.s)),
			V: uint8(sig.v),
		}
	}
	for i, update := range updates {
		proof := (*[1 << 20][32]byte)(unsafe.Pointer(update.merkle_proof))[:update.merkle_proof_len:update.merkle_proof_len]
		merkleProof := make([][32]byte, len(proof))
		copy(merkleProof, proof)

		msg.DataFeeds[i] = types.DataFeed{
			Timestamp:   uint64(update.timestamp),
			DataKey:     *(*[32]byte)(unsafe.Pointer(&update.data_key)),
			Data:        *(*[32]byte)(unsafe.Pointer(&update.price)),
			MerkleProof: merkleProof,
		}
	}

	runtime().UpdateMultipleAssets(msg)
}

//export get_latest_update
func get_latest_update(dataKeyPtr *C.uint8_t) C.latest_update_t {
	dataKey := *(*[32]byte)(unsafe.Pointer(dataKeyPtr))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result := runtime().GetLatestUpdate(ctx, dataKey)

	var out C.latest_update_t
	for i, b := range result.Price {
		out.price[i] = C.uint8_t(b)
	}
	out.timestamp = C.uint64_t(result.Timestamp)
	return out
}

//export get_chain_id
func get_chain_id(returnChainID *C.uint8_t) {
	chainIDBytes := runtime().ChainIDBytes()
	dst := (*[16]byte)(unsafe.Pointer(returnChainID))
	copy(dst[:], chainIDBytes[:])
}

func main() {}
