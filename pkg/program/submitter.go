package program

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/publisher/rpcpool"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// EncodeUpdateMultipleAssets gob-encodes msg for transport as a single
// rpcpool.Instruction's payload. pkg/chain stands in for a validator
// rather than a real cluster, so there is no Anchor instruction
// discriminator or Borsh layout to match here — only LedgerSubmitter
// needs to agree with this encoding.
func EncodeUpdateMultipleAssets(msg types.MultipleUpdateMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("program: encode update_multiple_assets: %w", err)
	}
	return buf.Bytes(), nil
}

// LedgerSubmitter adapts Program.UpdateMultipleAssets to rpcpool.Submitter,
// playing the role the original transactor's RPC submission played
// against a real cluster.
type LedgerSubmitter struct {
	Program   *Program
	Publisher chain.Pubkey
}

// Submit decodes each instruction's payload and applies it against the
// program's ledger. computeUnitPriceMicroLamports and skipPreflight are
// accepted for interface parity; a ledger write has no gas market or
// preflight simulation to apply them to.
func (s *LedgerSubmitter) Submit(ctx context.Context, endpoint string, instructions []rpcpool.Instruction, computeUnitPriceMicroLamports uint64, skipPreflight bool) error {
	for _, instruction := range instructions {
		var msg types.MultipleUpdateMessage
		if err := gob.NewDecoder(bytes.NewReader(instruction.Data)).Decode(&msg); err != nil {
			return fmt.Errorf("program: decode update_multiple_assets: %w", err)
		}
		if err := s.Program.UpdateMultipleAssets(s.Publisher, msg); err != nil {
			return err
		}
	}
	return nil
}
