// Package bootstrap wires a config.PublisherConfig into a running
// publisher: ledger backend, on-chain program, transport pool and
// dispatcher. Both cmd/publisher and cmd/ffi share it so the process
// entrypoint and the C ABI entrypoint build an identical runtime,
// mirroring lib.rs's RUNTIME and app.rs's PublisherApp::try_new sharing
// one construction path.
package bootstrap

import (
	"context"
	"encoding/hex"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/config"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program/store/badger"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program/store/memory"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program/store/redis"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher/reader"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher/rpcpool"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher/signer"
)

// Runtime bundles the components a running publisher process needs.
type Runtime struct {
	Ledger     chain.Ledger
	Program    *program.Program
	Signer     signer.Signer
	Publisher  chain.Pubkey
	Queue      *publisher.Queue
	Dispatcher *publisher.Dispatcher
	Reader     *reader.Reader
}

// Build opens the configured ledger backend, resolves the publisher's
// signing identity and wires the dispatch pipeline around it. It does
// not call Program.Initialize — that is an explicit operator action
// (see cmd/publisher's "init" flag), matching the original program's
// own admin-gated init_if_needed.
func Build(ctx context.Context, cfg *config.PublisherConfig, logger *zap.Logger) (*Runtime, error) {
	ledger, err := openLedger(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open ledger: %w", err)
	}

	programID, err := chain.ParsePubkeyHex(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: program_id: %w", err)
	}

	sign, err := newSigner(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: signer: %w", err)
	}

	// The publisher account pkg/program reads is a 32-byte chain.Pubkey;
	// pkg/chain has no real transaction-signature check to tie it back
	// to sign's 20-byte Ethereum-style address, so the address is
	// embedded directly rather than cryptographically derived.
	var publisherPubkey chain.Pubkey
	addr := sign.Address()
	copy(publisherPubkey[:], addr[:])

	prog := program.New(programID, ledger, logger)
	submitter := &program.LedgerSubmitter{Program: prog, Publisher: publisherPubkey}

	pool, err := rpcpool.NewPool(cfg.ReadRPCURLs(), cfg.WriteRPCURLs(), submitter, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: rpc pool: %w", err)
	}

	queue := publisher.NewQueue()
	dispatcher := publisher.NewDispatcher(programID, publisherPubkey, ledger, pool, logger)
	r := reader.New(programID, ledger)

	return &Runtime{
		Ledger:     ledger,
		Program:    prog,
		Signer:     sign,
		Publisher:  publisherPubkey,
		Queue:      queue,
		Dispatcher: dispatcher,
		Reader:     r,
	}, nil
}

// ParseProtocolID decodes the hex-encoded protocol_id configured
// alongside program_id, for callers driving Program.Initialize directly.
func ParseProtocolID(s string) ([32]byte, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return [32]byte{}, fmt.Errorf("bootstrap: protocol_id: %w", err)
	}
	if len(decoded) != 32 {
		return [32]byte{}, fmt.Errorf("bootstrap: protocol_id must be 32 bytes, got %d", len(decoded))
	}
	var out [32]byte
	copy(out[:], decoded)
	return out, nil
}

func openLedger(cfg *config.PublisherConfig, logger *zap.Logger) (chain.Ledger, error) {
	switch cfg.Persistence.Type {
	case "badger":
		store, err := badger.New(cfg.Persistence.DataPath, logger)
		if err != nil {
			return nil, err
		}
		logger.Sugar().Infow("using badger ledger", "path", cfg.Persistence.DataPath)
		return store, nil
	case "redis":
		store, err := redis.New(&redis.Config{
			Address:   cfg.Persistence.Redis.Address,
			Password:  cfg.Persistence.Redis.Password,
			DB:        cfg.Persistence.Redis.DB,
			KeyPrefix: cfg.Persistence.Redis.KeyPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Sugar().Infow("using redis ledger", "address", cfg.Persistence.Redis.Address)
		return store, nil
	default:
		logger.Sugar().Warn("using in-memory ledger - data will be lost on restart")
		return memory.New(), nil
	}
}

func newSigner(ctx context.Context, cfg *config.PublisherConfig) (signer.Signer, error) {
	switch cfg.Signer.Type {
	case "kms":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Signer.KMSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := kms.NewFromConfig(awsCfg)
		return signer.NewKMSSigner(ctx, client, cfg.Signer.KMSKeyID)
	default:
		return signer.NewLocalSignerFromHex(cfg.Signer.LocalPrivateKeyHex)
	}
}
