// Package ffi is the Go analogue of price-publisher's lib.rs: the
// runtime object its cdylib's three exported functions call into.
// cmd/ffi wraps Bridge with cgo //export functions matching lib.rs's
// extern "C" signatures; this package holds the logic so that boundary
// stays a thin, untestable shim.
package ffi

import (
	"context"
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher/reader"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// Bridge is the long-lived runtime a cdylib build holds for its
// process's lifetime, standing in for lib.rs's Lazy<PricePublisherRuntime>.
type Bridge struct {
	Queue   *publisher.Queue
	Reader  *reader.Reader
	ChainID uint64
	Logger  *zap.Logger
}

// NewBridge wires a Bridge over an already-running publisher queue and
// reader.
func NewBridge(queue *publisher.Queue, r *reader.Reader, chainID uint64, logger *zap.Logger) *Bridge {
	return &Bridge{Queue: queue, Reader: r, ChainID: chainID, Logger: logger}
}

// UpdateMultipleAssets enqueues msg for the dispatcher. Like
// update_multiple_assets, a full queue is logged and swallowed rather
// than surfaced to the FFI caller, which has no error channel.
func (b *Bridge) UpdateMultipleAssets(msg types.MultipleUpdateMessage) {
	if err := b.Queue.Enqueue(msg); err != nil {
		b.Logger.Sugar().Errorw("failed to send data_feed_message through the channel", "error", err)
	}
}

// GetLatestUpdate races a lookup against reader.Deadline, matching
// get_latest_update's select! against a 2-second sleep.
func (b *Bridge) GetLatestUpdate(ctx context.Context, dataKey [32]byte) reader.LatestUpdate {
	return b.Reader.GetLatestUpdateWithDeadline(ctx, dataKey)
}

// ChainIDBytes returns the configured chain ID as a big-endian u128,
// matching get_chain_id's `bytes = to_return.to_be()` write: the low 8
// bytes carry the value, since this module's configuration only ever
// stores a uint64 chain ID (see pkg/config).
func (b *Bridge) ChainIDBytes() [16]byte {
	var out [16]byte
	binary.BigEndian.PutUint64(out[8:], b.ChainID)
	return out
}
