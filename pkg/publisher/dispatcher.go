package publisher

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher/rpcpool"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// dataFeedChunkSize mirrors DATA_FEED_CHUNK_SIZE: each transaction
// carries at most this many feeds sharing the batch's merkle_root and
// signatures.
const dataFeedChunkSize = 3

// computeUnitBudget and priorityFeeMicroLamports are the fixed
// transaction parameters original_source's process_data_feed_msg
// applies to every chunk.
const (
	computeUnitBudget        = 400000
	priorityFeeMicroLamports = 1000
	sendCommitmentDepth      = 1
)

// Dispatcher drains a Queue, chunking each batch and submitting one
// transaction per chunk through an rpcpool.Pool.
type Dispatcher struct {
	ProgramID chain.Pubkey
	Publisher chain.Pubkey
	Ledger    chain.Ledger
	Pool      *rpcpool.Pool
	Logger    *zap.Logger
}

// NewDispatcher returns a Dispatcher wired to the given program ID,
// publisher account, ledger and transport pool.
func NewDispatcher(programID, publisher chain.Pubkey, ledger chain.Ledger, pool *rpcpool.Pool, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{ProgramID: programID, Publisher: publisher, Ledger: ledger, Pool: pool, Logger: logger}
}

// Run drains queue until it is closed, logging and continuing past any
// per-batch failure — one bad batch must not stop the rest of the
// queue from draining, matching execute()'s `let _ =` discard.
func (d *Dispatcher) Run(ctx context.Context, queue *Queue) {
	for msg := range queue.Messages() {
		if err := d.processMessage(ctx, msg); err != nil {
			d.Logger.Sugar().Errorw("failed to process data feed message", "error", err)
		}
	}
}

func (d *Dispatcher) processMessage(ctx context.Context, msg types.MultipleUpdateMessage) error {
	batchID := uuid.New().String()
	d.Logger.Sugar().Debugw("data feed message received", "batch_id", batchID, "feeds", len(msg.DataFeeds))

	configAccount, err := d.Ledger.GetAccount(program.ConfigAddress(d.ProgramID))
	if err != nil {
		return fmt.Errorf("publisher: load config: %w", err)
	}
	cfg, err := program.DecodeConfig(configAccount.Data)
	if err != nil {
		return fmt.Errorf("publisher: decode config: %w", err)
	}

	chunks := chunkDataFeeds(msg.DataFeeds, dataFeedChunkSize)
	instructions := make([]rpcpool.Instruction, len(chunks))

	// Each chunk's instruction (gob encoding plus its account list) is
	// independent of the others, so building them is fanned out with
	// errgroup rather than done in the submission loop below.
	var group errgroup.Group
	for i, chunkFeeds := range chunks {
		i, chunkFeeds := i, chunkFeeds
		group.Go(func() error {
			chunk := msg
			chunk.DataFeeds = chunkFeeds

			data, err := program.EncodeUpdateMultipleAssets(chunk)
			if err != nil {
				return err
			}

			accounts := []string{d.Publisher.String(), program.ConfigAddress(d.ProgramID).String(), program.ProtocolInfoAddress(cfg.Endpoint, cfg.ProtocolID).String()}
			for _, feed := range chunkFeeds {
				accounts = append(accounts, program.LatestUpdateAddress(d.ProgramID, cfg.ProtocolID, feed.DataKey).String())
			}

			instructions[i] = rpcpool.Instruction{
				ProgramID:    d.ProgramID.String(),
				Data:         data,
				Accounts:     accounts,
				ComputeUnits: computeUnitBudget,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("publisher: batch %s: build chunks: %w", batchID, err)
	}

	// Every chunk is submitted as its own transaction; one chunk's
	// failure must not stop the rest from reaching the ledger, so
	// errors across the batch are combined rather than returned early.
	var submitErr error
	for i, instruction := range instructions {
		if err := d.Pool.SendAllInstructions(ctx, []rpcpool.Instruction{instruction}, sendCommitmentDepth, nil, priorityFeeMicroLamports, false); err != nil {
			submitErr = multierr.Append(submitErr, fmt.Errorf("chunk %d: %w", i, err))
			continue
		}
		d.Logger.Sugar().Infow("data feed chunk submitted", "batch_id", batchID, "feeds", len(chunks[i]))
	}
	if submitErr != nil {
		return fmt.Errorf("publisher: batch %s: %w", batchID, submitErr)
	}
	return nil
}

// chunkDataFeeds splits feeds into groups of at most size, preserving
// order.
func chunkDataFeeds(feeds []types.DataFeed, size int) [][]types.DataFeed {
	var chunks [][]types.DataFeed
	for start := 0; start < len(feeds); start += size {
		end := start + size
		if end > len(feeds) {
			end = len(feeds)
		}
		chunks = append(chunks, feeds[start:end])
	}
	return chunks
}
