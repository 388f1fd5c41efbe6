// Package merkle implements the sorted-pair Keccak-256 Merkle verifier
// that binds a DataFeed leaf to a batch's signed merkle_root.
//
// Grounded on the teacher's pkg/merkle (BuildMerkleTree/VerifyProof shape)
// and on original_source/programs/udf-solana/src/hash.rs, whose
// commutative_keccak256 this package matches byte-for-byte.
package merkle

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"
)

// Keccak256 hashes data with Keccak-256, returning a 32-byte digest.
func Keccak256(data ...[]byte) [32]byte {
	return [32]byte(crypto.Keccak256(data...))
}

// CombinePair computes the commutative, sorted-pair Keccak-256 combiner
// used to fold a Merkle proof: keccak256(min(a,b) || max(a,b)).
func CombinePair(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return Keccak256(a[:], b[:])
	}
	return Keccak256(b[:], a[:])
}

// VerifyProof folds proof into leaf via CombinePair and compares the
// result against root. An empty proof requires leaf to equal root
// exactly. Proof depth is not bounded here; the sender controls it.
func VerifyProof(proof [][32]byte, root, leaf [32]byte) bool {
	current := leaf
	for _, sibling := range proof {
		current = CombinePair(current, sibling)
	}
	return current == root
}
