package program

import "errors"

// Sentinel errors mirroring original_source/programs/udf-solana/src/error.rs's
// CustomError enum, one per variant.
var (
	ErrIsNotAdmin             = errors.New("program: is not admin")
	ErrInvalidSignature       = errors.New("program: invalid signature")
	ErrConsensusNotReached    = errors.New("program: consensus not reached")
	ErrMerkleProofNotVerified = errors.New("program: merkle proof not verified")
	ErrInconsistentData       = errors.New("program: inconsistent data")
)
