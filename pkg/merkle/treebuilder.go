package merkle

import "fmt"

// Tree is an off-chain helper for building a sorted-pair Keccak Merkle
// tree and generating proofs for its leaves. It exists for tests and
// publisher-side tooling that must construct (root, proof) fixtures; the
// on-chain-facing verifier (VerifyProof) is independent of this type and
// is the actual wire contract — it is re-derived from scratch rather than
// borrowed from a tree-construction library, since it must match
// original_source's commutative_keccak256 byte-for-byte.
//
// Grounded on the teacher's pkg/merkle.BuildMerkleTree (bottom-up level
// construction, proof generation by walking levels), adapted to use
// CombinePair instead of the teacher's plain ordered hashPair so that
// proofs built here verify against VerifyProof.
type Tree struct {
	levels [][][32]byte // levels[0] = leaves, levels[len-1] = root
}

// NewTree builds a sorted-pair Keccak-256 Merkle tree over leaves. An odd
// node at any level is promoted unchanged to the next level (no
// duplication), keeping proof generation well-defined for non-power-of-two
// leaf counts without inventing sibling data.
func NewTree(leaves [][32]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("merkle: cannot build a tree from zero leaves")
	}

	levels := [][][32]byte{append([][32]byte(nil), leaves...)}
	current := levels[0]
	for len(current) > 1 {
		next := make([][32]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, CombinePair(current[i], current[i+1]))
			} else {
				next = append(next, current[i])
			}
		}
		levels = append(levels, next)
		current = next
	}
	return &Tree{levels: levels}, nil
}

// Root returns the tree's Merkle root.
func (t *Tree) Root() [32]byte {
	return t.levels[len(t.levels)-1][0]
}

// Proof returns the sibling hashes (root-ward order) for the leaf at index i.
func (t *Tree) Proof(i int) ([][32]byte, error) {
	if i < 0 || i >= len(t.levels[0]) {
		return nil, fmt.Errorf("merkle: leaf index %d out of bounds", i)
	}

	var proof [][32]byte
	index := i
	for level := 0; level < len(t.levels)-1; level++ {
		current := t.levels[level]
		if index%2 == 0 {
			if index+1 < len(current) {
				proof = append(proof, current[index+1])
			}
			// odd-node promotion: no sibling was hashed in, so no proof
			// element is added and index does not need adjusting beyond
			// the usual halving below.
		} else {
			proof = append(proof, current[index-1])
		}
		index /= 2
	}
	return proof, nil
}
