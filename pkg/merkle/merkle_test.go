package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leafFor(b byte) [32]byte {
	var l [32]byte
	l[0] = b
	return l
}

func TestVerifyProof_EmptyProofRequiresLeafEqualsRoot(t *testing.T) {
	leaf := leafFor(7)
	require.True(t, VerifyProof(nil, leaf, leaf))
	require.False(t, VerifyProof(nil, leafFor(8), leaf))
}

func TestCombinePair_Commutative(t *testing.T) {
	a, b := leafFor(1), leafFor(2)
	require.Equal(t, CombinePair(a, b), CombinePair(b, a))
}

func TestTree_RoundTrip(t *testing.T) {
	leaves := [][32]byte{leafFor(1), leafFor(2), leafFor(3), leafFor(4), leafFor(5)}
	tree, err := NewTree(leaves)
	require.NoError(t, err)

	root := tree.Root()
	for i, leaf := range leaves {
		proof, err := tree.Proof(i)
		require.NoError(t, err)
		require.True(t, VerifyProof(proof, root, leaf), "leaf %d should verify", i)
	}
}

func TestVerifyProof_Perturbation(t *testing.T) {
	leaves := [][32]byte{leafFor(1), leafFor(2), leafFor(3), leafFor(4)}
	tree, err := NewTree(leaves)
	require.NoError(t, err)

	root := tree.Root()
	proof, err := tree.Proof(0)
	require.NoError(t, err)
	require.True(t, VerifyProof(proof, root, leaves[0]))

	// Perturb the leaf.
	require.False(t, VerifyProof(proof, root, leafFor(99)))

	// Perturb a proof element.
	badProof := append([][32]byte(nil), proof...)
	badProof[0][0] ^= 0xFF
	require.False(t, VerifyProof(badProof, root, leaves[0]))

	// Perturb the root.
	badRoot := root
	badRoot[0] ^= 0xFF
	require.False(t, VerifyProof(proof, badRoot, leaves[0]))
}

func TestNewTree_EmptyRejected(t *testing.T) {
	_, err := NewTree(nil)
	require.Error(t, err)
}
