// Package consensus evaluates whether a batch of transmitter signatures
// over a Merkle root meets a protocol's configured quorum.
//
// Grounded on is_consensus_reached in
// original_source/programs/udf-solana/src/lib.rs, reproduced here
// statement-for-statement: the Ethereum personal-sign digest prefix, the
// integer-division quorum rate, and the early-accept-on-threshold
// behavior are all load-bearing and are not simplified.
package consensus

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/ecrecover"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// ErrConsensusNotReached mirrors CustomError::ConsensusNotReached: every
// signature was consumed without the unique-signer rate crossing the
// protocol's consensus_target_rate.
var ErrConsensusNotReached = errors.New("consensus: quorum not reached")

const ethPersonalSignPrefix = "\x19Ethereum Signed Message:\n32"

// Digest returns the Ethereum personal-sign digest over a Merkle root:
// keccak256("\x19Ethereum Signed Message:\n32" || merkle_root).
func Digest(merkleRoot [32]byte) [32]byte {
	return [32]byte(crypto.Keccak256([]byte(ethPersonalSignPrefix), merkleRoot[:]))
}

// Evaluate recovers each signature's signer against Digest(merkleRoot) and
// reports whether the unique, authorized-signer rate reaches or exceeds
// protocol.ConsensusTargetRate (out of types.RateDecimals).
//
// Malformed signatures (bad recovery id, curve failure) are a hard
// failure: they propagate immediately, matching the `?` on
// utils::ecrecover. A signature that recovers cleanly but isn't an
// authorized transmitter, or repeats an already-counted signer, is
// silently skipped — it does not error and does not advance the count.
// Evaluation stops at the first signature that pushes the rate to
// target; later signatures in the batch are never examined.
func Evaluate(merkleRoot [32]byte, signatures []types.TransmitterSignature, protocol *types.ProtocolInfo) (bool, error) {
	digest := Digest(merkleRoot)
	allowed := protocol.Transmitters()
	if len(allowed) == 0 {
		return false, fmt.Errorf("consensus: protocol has no authorized transmitters")
	}

	seen := make(map[types.EthAddress]struct{}, len(signatures))
	uniqueCount := uint64(0)

	for _, sig := range signatures {
		signer, err := ecrecover.Recover(digest, sig)
		if err != nil {
			return false, fmt.Errorf("consensus: %w", err)
		}

		if !isAuthorized(allowed, signer) {
			continue
		}
		if _, ok := seen[signer]; ok {
			continue
		}
		seen[signer] = struct{}{}
		uniqueCount++

		rate := uniqueCount * types.RateDecimals / uint64(len(allowed))
		if rate >= protocol.ConsensusTargetRate {
			return true, nil
		}
	}
	return false, nil
}

func isAuthorized(allowed []types.EthAddress, signer types.EthAddress) bool {
	for _, addr := range allowed {
		if addr == signer {
			return true
		}
	}
	return false
}
