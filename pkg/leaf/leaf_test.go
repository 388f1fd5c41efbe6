package leaf

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

func sampleFeed() types.DataFeed {
	feed := types.DataFeed{Timestamp: 1_700_000_000}
	feed.DataKey[0] = 0xAA
	feed.Data[31] = 0x2A
	return feed
}

func TestHash_Deterministic(t *testing.T) {
	feed := sampleFeed()

	h1, err := Hash(feed)
	require.NoError(t, err)
	h2, err := Hash(feed)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestHash_SensitiveToEveryField(t *testing.T) {
	base := sampleFeed()
	baseHash, err := Hash(base)
	require.NoError(t, err)

	timestamp := base
	timestamp.Timestamp++
	timestampHash, err := Hash(timestamp)
	require.NoError(t, err)
	require.NotEqual(t, baseHash, timestampHash)

	dataKey := base
	dataKey.DataKey[0] ^= 0xFF
	dataKeyHash, err := Hash(dataKey)
	require.NoError(t, err)
	require.NotEqual(t, baseHash, dataKeyHash)

	data := base
	data.Data[0] ^= 0xFF
	dataHash, err := Hash(data)
	require.NoError(t, err)
	require.NotEqual(t, baseHash, dataHash)
}

func TestHash_IgnoresMerkleProof(t *testing.T) {
	withoutProof := sampleFeed()
	withProof := sampleFeed()
	withProof.MerkleProof = [][32]byte{{1}, {2}}

	h1, err := Hash(withoutProof)
	require.NoError(t, err)
	h2, err := Hash(withProof)
	require.NoError(t, err)
	require.Equal(t, h1, h2, "the proof is not part of the leaf it proves")
}

func TestEncode_IsDoubleHashedIntoLeaf(t *testing.T) {
	feed := sampleFeed()
	encoded, err := Encode(feed)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	leafHash, err := Hash(feed)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256(crypto.Keccak256(encoded)), leafHash[:])
}
