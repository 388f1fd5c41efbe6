// Package leaf canonicalizes a DataFeed into the 32-byte Merkle leaf a
// transmitter's signed root commits to.
//
// Grounded on the teacher's pkg/util.EncodeString (go-ethereum ABI
// encoding of a dynamic-tuple argument list) and on
// original_source/programs/udf-solana/src/lib.rs's verify_data_feed,
// which this package matches byte-for-byte: leaf encoding is the wire
// contract between the publisher and off-chain tree builders, so any
// deviation silently breaks every proof.
package leaf

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

var feedArguments = mustArguments()

func mustArguments() abi.Arguments {
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	bytesType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(err)
	}
	bytes32Type, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: uint256Type}, {Type: bytesType}, {Type: bytes32Type}}
}

// Encode produces the canonical ABI head/tail encoding of
// (uint256 timestamp, bytes data, bytes32 data_key).
func Encode(feed types.DataFeed) ([]byte, error) {
	return feedArguments.Pack(
		new(big.Int).SetUint64(feed.Timestamp),
		append([]byte(nil), feed.Data[:]...),
		feed.DataKey,
	)
}

// Hash computes the double-Keccak leaf for feed:
// keccak256(keccak256(abi_encode(timestamp, data, data_key))).
//
// The double hash is deliberate: it protects against second-preimage
// attacks between leaves and inner nodes, since inner Merkle nodes are
// hashed only once (see pkg/merkle.CombinePair).
func Hash(feed types.DataFeed) ([32]byte, error) {
	inner, err := Encode(feed)
	if err != nil {
		return [32]byte{}, err
	}
	once := crypto.Keccak256(inner)
	return [32]byte(crypto.Keccak256(once)), nil
}
