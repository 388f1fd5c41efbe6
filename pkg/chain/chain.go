// Package chain models the narrow slice of an account-model blockchain
// (Solana-shaped: a flat address space of owned, sized, lamport-funded
// accounts) that the on-chain program needs. No Solana SDK appears
// anywhere in the example pack this module was grounded on, so this
// package is an original abstraction rather than a port of a teacher
// file; it is deliberately scoped to what pkg/program exercises; it is
// not a validator and not an RPC client.
//
// Grounded on the shape of the teacher's pkg/persistence.INodePersistence
// (a small, storage-engine-agnostic interface with an explicit
// Close/HealthCheck lifecycle) rather than its KMS-specific contents:
// Ledger plays the same role here that INodePersistence plays there.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Pubkey is a 32-byte account address.
type Pubkey [32]byte

func (p Pubkey) IsZero() bool { return p == Pubkey{} }

// String renders p as hex. Real Solana addresses are base58-encoded;
// this module's addresses are SHA-256 derived rather than curve points,
// so hex is used instead of pulling in base58 just for display.
func (p Pubkey) String() string { return hex.EncodeToString(p[:]) }

// ParsePubkeyHex decodes a hex-encoded 32-byte address, as read from
// config files and CLI flags.
func ParsePubkeyHex(s string) (Pubkey, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("chain: parse pubkey: %w", err)
	}
	if len(decoded) != 32 {
		return Pubkey{}, fmt.Errorf("chain: pubkey must be 32 bytes, got %d", len(decoded))
	}
	var out Pubkey
	copy(out[:], decoded)
	return out, nil
}

// AccountInfo is the persisted state of one account: its owning
// program, lamport balance and raw data bytes. It intentionally omits
// genuine Solana fields (rent_epoch, executable) this spec never reads.
type AccountInfo struct {
	Owner    Pubkey
	Lamports uint64
	Data     []byte
}

// ErrAccountNotFound is returned by Ledger.GetAccount for an address
// with no stored AccountInfo. It is not itself an error condition for
// callers that expect lazily-allocated accounts (see pkg/program).
var ErrAccountNotFound = errors.New("chain: account not found")

// Ledger is the storage contract the on-chain program logic runs
// against. Implementations in pkg/program/store/{memory,badger,redis}
// back it with different engines; program logic never imports an
// engine package directly.
type Ledger interface {
	// GetAccount returns the AccountInfo at address, or
	// ErrAccountNotFound if none has been created yet.
	GetAccount(address Pubkey) (*AccountInfo, error)

	// CreateAccount allocates a new account owned by owner with the
	// given data length, funded with lamports. It returns an error if
	// an account already exists at address.
	CreateAccount(address Pubkey, owner Pubkey, lamports uint64, data []byte) error

	// WriteAccount overwrites the data of an existing account. It
	// returns ErrAccountNotFound if the account does not exist.
	WriteAccount(address Pubkey, data []byte) error

	// Close releases resources held by the ledger backend. Idempotent.
	Close() error

	// HealthCheck verifies the backend is reachable and usable.
	HealthCheck() error
}

// DeriveAddress computes a deterministic program-derived address from a
// program ID and a sequence of seeds, by hashing them together with
// SHA-256.
//
// This is NOT genuine Solana PDA derivation (on-curve rejection with a
// bump seed search) — the oracle's trust logic only needs the result to
// be deterministic and collision-resistant for a given seed tuple, not
// to satisfy Solana's actual point-on-curve invariant, so a direct hash
// stands in for it.
func DeriveAddress(programID Pubkey, seeds ...[]byte) Pubkey {
	h := sha256.New()
	h.Write(programID[:])
	for _, seed := range seeds {
		h.Write(seed)
	}
	var out Pubkey
	copy(out[:], h.Sum(nil))
	return out
}
