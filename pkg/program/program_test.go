package program

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/consensus"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/leaf"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/merkle"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/program/store/memory"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

func transmitterKey(b byte) []byte {
	key := make([]byte, 32)
	key[31] = b
	return key
}

func transmitterAddress(t *testing.T, key []byte) types.EthAddress {
	t.Helper()
	privateKey, err := crypto.ToECDSA(key)
	require.NoError(t, err)
	var addr types.EthAddress
	copy(addr[:], crypto.PubkeyToAddress(privateKey.PublicKey).Bytes())
	return addr
}

func signRoot(t *testing.T, key []byte, root [32]byte) types.TransmitterSignature {
	t.Helper()
	privateKey, err := crypto.ToECDSA(key)
	require.NoError(t, err)
	digest := consensus.Digest(root)
	sig, err := crypto.Sign(digest[:], privateKey)
	require.NoError(t, err)

	var out types.TransmitterSignature
	copy(out.R[:], sig[0:32])
	copy(out.S[:], sig[32:64])
	out.V = sig[64]
	return out
}

// testHarness wires up a Program with a seeded Config and a seeded,
// foreign-owned ProtocolInfo account requiring a single transmitter.
type testHarness struct {
	t          *testing.T
	program    *Program
	store      *memory.Store
	endpoint   chain.Pubkey
	protocolID [32]byte
	signerKey  []byte
}

func newHarness(t *testing.T, targetRate uint64) *testHarness {
	t.Helper()
	store := memory.New()
	programID := chain.Pubkey{0xAA}
	endpoint := chain.Pubkey{0xBB}
	var protocolID [32]byte
	protocolID[0] = 0xCC

	prog := New(programID, store, zap.NewNop())

	admin, err := deployerPubkey()
	require.NoError(t, err)
	require.NoError(t, prog.Initialize(admin, endpoint, protocolID))

	signerKey := transmitterKey(1)
	info := types.ProtocolInfo{IsInit: true, ConsensusTargetRate: targetRate}
	info.TransmittersRaw[0] = transmitterAddress(t, signerKey)

	protocolInfoAddress := ProtocolInfoAddress(endpoint, protocolID)
	require.NoError(t, store.CreateAccount(protocolInfoAddress, endpoint, 0, EncodeProtocolInfo(info)))

	return &testHarness{t: t, program: prog, store: store, endpoint: endpoint, protocolID: protocolID, signerKey: signerKey}
}

func (h *testHarness) buildFeed(dataKeyByte byte, timestamp uint64, value byte) (types.DataFeed, [32]byte) {
	var feed types.DataFeed
	feed.Timestamp = timestamp
	feed.DataKey[0] = dataKeyByte
	feed.Data[31] = value

	leafHash, err := leaf.Hash(feed)
	require.NoError(h.t, err)
	tree, err := merkle.NewTree([][32]byte{leafHash})
	require.NoError(h.t, err)
	proof, err := tree.Proof(0)
	require.NoError(h.t, err)
	feed.MerkleProof = proof
	return feed, tree.Root()
}

func TestInitialize_RejectsNonDeployerOnFirstCall(t *testing.T) {
	store := memory.New()
	prog := New(chain.Pubkey{1}, store, zap.NewNop())
	err := prog.Initialize(chain.Pubkey{9}, chain.Pubkey{2}, [32]byte{3})
	require.ErrorIs(t, err, ErrIsNotAdmin)
}

func TestInitialize_SecondCallRequiresStoredAdmin(t *testing.T) {
	store := memory.New()
	prog := New(chain.Pubkey{1}, store, zap.NewNop())
	admin, err := deployerPubkey()
	require.NoError(t, err)
	require.NoError(t, prog.Initialize(admin, chain.Pubkey{2}, [32]byte{3}))

	require.NoError(t, prog.Initialize(admin, chain.Pubkey{2}, [32]byte{3}))
	require.ErrorIs(t, prog.Initialize(chain.Pubkey{42}, chain.Pubkey{2}, [32]byte{3}), ErrIsNotAdmin)
}

func TestUpdateMultipleAssets_HappyPath(t *testing.T) {
	h := newHarness(t, types.RateDecimals) // require 100% of 1 signer

	feed, root := h.buildFeed(1, 1000, 0x2A)
	sig := signRoot(t, h.signerKey, root)

	msg := types.MultipleUpdateMessage{
		MerkleRoot: root,
		DataFeeds:  []types.DataFeed{feed},
		Signatures: []types.TransmitterSignature{sig},
	}
	require.NoError(t, h.program.UpdateMultipleAssets(chain.Pubkey{1}, msg))

	latestAddr := LatestUpdateAddress(h.program.ID, h.protocolID, feed.DataKey)
	account, err := h.store.GetAccount(latestAddr)
	require.NoError(t, err)
	update, err := decodeLatestUpdate(account.Data)
	require.NoError(t, err)
	require.Equal(t, feed.Data, update.Data)
	require.Equal(t, uint64(1000), update.DataTimestamp)
}

func TestUpdateMultipleAssets_ConsensusNotReached(t *testing.T) {
	h := newHarness(t, types.RateDecimals)
	feed, root := h.buildFeed(1, 1000, 0x2A)

	msg := types.MultipleUpdateMessage{
		MerkleRoot: root,
		DataFeeds:  []types.DataFeed{feed},
		Signatures: nil,
	}
	err := h.program.UpdateMultipleAssets(chain.Pubkey{1}, msg)
	require.ErrorIs(t, err, ErrConsensusNotReached)
}

func TestUpdateMultipleAssets_BadProofRejected(t *testing.T) {
	h := newHarness(t, types.RateDecimals)
	feed, root := h.buildFeed(1, 1000, 0x2A)
	feed.MerkleProof = append(feed.MerkleProof, [32]byte{0xFF})
	sig := signRoot(t, h.signerKey, root)

	msg := types.MultipleUpdateMessage{
		MerkleRoot: root,
		DataFeeds:  []types.DataFeed{feed},
		Signatures: []types.TransmitterSignature{sig},
	}
	err := h.program.UpdateMultipleAssets(chain.Pubkey{1}, msg)
	require.ErrorIs(t, err, ErrMerkleProofNotVerified)
}

func TestUpdateAsset_StaleTimestampSilentlyIgnored(t *testing.T) {
	h := newHarness(t, types.RateDecimals)

	first, root1 := h.buildFeed(1, 2000, 0x01)
	sig1 := signRoot(t, h.signerKey, root1)
	require.NoError(t, h.program.UpdateMultipleAssets(chain.Pubkey{1}, types.MultipleUpdateMessage{
		MerkleRoot: root1, DataFeeds: []types.DataFeed{first}, Signatures: []types.TransmitterSignature{sig1},
	}))

	stale, root2 := h.buildFeed(1, 1000, 0x02) // earlier timestamp, same key
	sig2 := signRoot(t, h.signerKey, root2)
	require.NoError(t, h.program.UpdateMultipleAssets(chain.Pubkey{1}, types.MultipleUpdateMessage{
		MerkleRoot: root2, DataFeeds: []types.DataFeed{stale}, Signatures: []types.TransmitterSignature{sig2},
	}))

	latestAddr := LatestUpdateAddress(h.program.ID, h.protocolID, first.DataKey)
	account, err := h.store.GetAccount(latestAddr)
	require.NoError(t, err)
	update, err := decodeLatestUpdate(account.Data)
	require.NoError(t, err)
	require.Equal(t, uint64(2000), update.DataTimestamp, "the later, already-applied timestamp must survive")
	require.Equal(t, first.Data, update.Data)
}

func TestGetLastPrice_HappyPath(t *testing.T) {
	h := newHarness(t, types.RateDecimals)
	feed, root := h.buildFeed(7, 500, 0x33)
	sig := signRoot(t, h.signerKey, root)

	data, err := h.program.GetLastPrice(chain.Pubkey{1}, types.LastPriceMessage{
		MerkleRoot: root, DataFeed: feed, Signatures: []types.TransmitterSignature{sig},
	})
	require.NoError(t, err)
	require.Equal(t, feed.Data, data)
}
