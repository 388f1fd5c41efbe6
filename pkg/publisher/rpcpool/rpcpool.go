// Package rpcpool is the publisher's transport layer: it rotates
// submissions across the configured write RPC endpoints and rate-limits
// them per endpoint before handing a compiled instruction bundle to a
// Submitter. Read lookups always use the first configured read endpoint.
//
// Grounded on the teacher's pkg/transactionSigner (Web3TransactionSigner's
// gas-estimation-then-submit flow, its per-call context and zap logging)
// and on original_source/price-publisher/src/data_feed_processor.rs's
// send_all_instructions call shape, which this package's
// SendAllInstructions signature mirrors. No Solana RPC client exists
// anywhere in the example pack, so Submitter is the seam a real
// solana-go client would implement; pkg/program's ledger-backed
// implementation plays that role in this module.
package rpcpool

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Instruction is one compiled program call: the wire-format payload the
// Submitter will apply, plus the compute unit budget it is allowed to
// consume.
type Instruction struct {
	ProgramID    string
	Data         []byte
	Accounts     []string
	ComputeUnits uint32
}

// Submitter applies a batch of instructions as a single transaction.
// pkg/program's ledger-backed adapter implements this without a real
// validator or RPC round-trip.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, instructions []Instruction, computeUnitPriceMicroLamports uint64, skipPreflight bool) error
}

// Pool rotates submissions across a fixed set of write endpoints,
// applying a per-endpoint token-bucket rate limit before each one. Read
// endpoints are not rotated (see ReadEndpoint).
type Pool struct {
	readEndpoints  []string
	writeEndpoints []string
	limiters       map[string]*rate.Limiter
	submitter      Submitter
	logger         *zap.Logger
	nextWrite      atomic.Uint64
}

// defaultRPSPerEndpoint bounds how often this publisher hits a single
// configured RPC endpoint; it is conservative because a misbehaving
// upstream should fail slow, not hot-loop a cluster node.
const defaultRPSPerEndpoint = 10

// NewPool builds a Pool over readEndpoints/writeEndpoints, both of which
// must be non-empty, submitting through submitter.
func NewPool(readEndpoints, writeEndpoints []string, submitter Submitter, logger *zap.Logger) (*Pool, error) {
	if len(readEndpoints) == 0 {
		return nil, fmt.Errorf("rpcpool: no read endpoints configured")
	}
	if len(writeEndpoints) == 0 {
		return nil, fmt.Errorf("rpcpool: no write endpoints configured")
	}

	limiters := make(map[string]*rate.Limiter, len(readEndpoints)+len(writeEndpoints))
	for _, endpoint := range append(append([]string{}, readEndpoints...), writeEndpoints...) {
		limiters[endpoint] = rate.NewLimiter(rate.Limit(defaultRPSPerEndpoint), defaultRPSPerEndpoint)
	}

	return &Pool{
		readEndpoints:  readEndpoints,
		writeEndpoints: writeEndpoints,
		limiters:       limiters,
		submitter:      submitter,
		logger:         logger,
	}, nil
}

// ReadEndpoint returns the first configured read endpoint, matching the
// original processor's "first read RPC" convention for account fetches.
func (p *Pool) ReadEndpoint() string {
	return p.readEndpoints[0]
}

// SendAllInstructions submits instructions as one logical transaction
// against the next write endpoint in rotation, rate-limited per
// endpoint. commitmentDepth and extraSigners are accepted for parity
// with the original transactor's call shape; this module's Submitter
// does not yet need either.
func (p *Pool) SendAllInstructions(
	ctx context.Context,
	instructions []Instruction,
	commitmentDepth uint32,
	extraSigners []string,
	computeUnitPriceMicroLamports uint64,
	skipPreflight bool,
) error {
	endpoint := p.nextWriteEndpoint()

	limiter, ok := p.limiters[endpoint]
	if ok {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rpcpool: rate limit wait: %w", err)
		}
	}

	if err := p.submitter.Submit(ctx, endpoint, instructions, computeUnitPriceMicroLamports, skipPreflight); err != nil {
		p.logger.Sugar().Errorw("failed to process transaction", "endpoint", endpoint, "error", err)
		return fmt.Errorf("rpcpool: submit via %s: %w", endpoint, err)
	}
	return nil
}

func (p *Pool) nextWriteEndpoint() string {
	index := p.nextWrite.Add(1) - 1
	return p.writeEndpoints[index%uint64(len(p.writeEndpoints))]
}
