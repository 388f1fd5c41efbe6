// Package ecrecover recovers the Ethereum-style address behind a
// transmitter's ECDSA signature over a batch's Merkle root.
//
// Grounded on original_source/programs/udf-solana/src/utils.rs's
// ecrecover/derive_eth_address, re-expressed over go-ethereum/crypto
// instead of Solana's secp256k1_recover syscall. Recovered addresses are
// cached by (hash, signature) since the same batch is recovered against
// once per signature per verifying party, and secp256k1 recovery is the
// hottest path in consensus evaluation.
package ecrecover

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"

	"github.com/ethereum/go-ethereum/crypto"
)

const cacheSize = 4096

var cache, _ = lru.New[cacheKey, types.EthAddress](cacheSize)

type cacheKey struct {
	hash [32]byte
	sig  types.TransmitterSignature
}

// Recover recovers the signer's EthAddress from an ECDSA signature over
// digest. v is normalized by `v mod 27` before recovery, matching the
// original program's handling of Solana's secp256k1_recover calling
// convention (recovery id passed as 0/1, not 27/28).
func Recover(digest [32]byte, sig types.TransmitterSignature) (types.EthAddress, error) {
	key := cacheKey{hash: digest, sig: sig}
	if addr, ok := cache.Get(key); ok {
		return addr, nil
	}

	recoveryID := sig.V % 27
	if recoveryID > 1 {
		return types.EthAddress{}, fmt.Errorf("ecrecover: invalid recovery id %d", sig.V)
	}

	signature := make([]byte, 65)
	copy(signature[0:32], sig.R[:])
	copy(signature[32:64], sig.S[:])
	signature[64] = recoveryID

	pubkey, err := crypto.Ecrecover(digest[:], signature)
	if err != nil {
		return types.EthAddress{}, fmt.Errorf("ecrecover: %w", err)
	}

	addr := deriveEthAddress(pubkey)
	cache.Add(key, addr)
	return addr, nil
}

// deriveEthAddress matches derive_eth_address: keccak256 of the
// uncompressed public key with its leading 0x04 prefix stripped, low 20
// bytes of the digest.
func deriveEthAddress(uncompressedPubkey []byte) types.EthAddress {
	digest := crypto.Keccak256(uncompressedPubkey[1:])
	var addr types.EthAddress
	copy(addr[:], digest[12:])
	return addr
}
