// Package reader fetches the latest accepted price for a data key,
// bounded by a 2-second deadline.
//
// Grounded on original_source/price-publisher's get_latest_update FFI
// export and DataFeedProcessor.get_latest_update: both resolve Config
// first to find protocol_id, then the per-key LatestUpdate PDA, and the
// FFI boundary races the lookup against a fixed 2-second timer,
// returning a zero-value result rather than an error on timeout so a
// slow read never blocks its caller indefinitely.
package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// Deadline is the fixed timeout get_latest_update's original FFI
// boundary applies to a single lookup.
const Deadline = 2 * time.Second

// LatestUpdate is the result handed back across the FFI boundary: the
// raw 32-byte payload and its timestamp, zero-valued on timeout or miss.
type LatestUpdate struct {
	Price     [32]byte
	Timestamp uint64
}

// Reader resolves LatestUpdate accounts through a chain.Ledger.
type Reader struct {
	ProgramID chain.Pubkey
	Ledger    chain.Ledger
}

// New returns a Reader bound to programID and ledger.
func New(programID chain.Pubkey, ledger chain.Ledger) *Reader {
	return &Reader{ProgramID: programID, Ledger: ledger}
}

// GetLatestUpdate resolves Config to find the active protocol_id, then
// fetches and decodes the LatestUpdate PDA for dataKey. On a real
// cluster this is two round-trips; here both are Ledger reads.
func (r *Reader) GetLatestUpdate(dataKey [32]byte) (types.LatestUpdate, error) {
	configAccount, err := r.Ledger.GetAccount(program.ConfigAddress(r.ProgramID))
	if err != nil {
		return types.LatestUpdate{}, fmt.Errorf("reader: load config: %w", err)
	}
	var protocolID [32]byte
	copy(protocolID[:], configAccount.Data[64:96])

	address := program.LatestUpdateAddress(r.ProgramID, protocolID, dataKey)
	account, err := r.Ledger.GetAccount(address)
	if err != nil {
		return types.LatestUpdate{}, fmt.Errorf("reader: load latest_update: %w", err)
	}

	return program.DecodeLatestUpdate(account.Data)
}

// GetLatestUpdateWithDeadline races GetLatestUpdate against Deadline,
// returning a zero-valued LatestUpdate instead of an error on timeout —
// matching get_latest_update's select!{} against a 2-second sleep.
func (r *Reader) GetLatestUpdateWithDeadline(ctx context.Context, dataKey [32]byte) LatestUpdate {
	ctx, cancel := context.WithTimeout(ctx, Deadline)
	defer cancel()

	result := make(chan types.LatestUpdate, 1)
	go func() {
		update, err := r.GetLatestUpdate(dataKey)
		if err != nil {
			result <- types.LatestUpdate{}
			return
		}
		result <- update
	}()

	select {
	case update := <-result:
		return LatestUpdate{Price: update.Data, Timestamp: update.DataTimestamp}
	case <-ctx.Done():
		return LatestUpdate{}
	}
}
