// Package priceformat decodes the 32-byte LatestUpdate.Data payload
// into the price magnitude a consumer program actually cares about.
//
// Grounded on original_source/programs/price-consumer/src/lib.rs's
// consume_price: it borsh-deserializes data as ([u8;32], u64), splits
// the 32-byte price at its midpoint, discards the high 16 bytes, and
// interprets the low 16 bytes as a big-endian u128. Nothing in
// spec.md's component design names this step; it was an Open Question
// resolved by reading the original consumer program.
package priceformat

import "math/big"

// DecodePrice reads the big-endian uint128 stored in the low 16 bytes
// of a feed's Data field. The high 16 bytes are unused by any consumer
// in this system and are ignored.
func DecodePrice(data [32]byte) *big.Int {
	return new(big.Int).SetBytes(data[16:32])
}

// EncodePrice is the inverse of DecodePrice: it places price's
// big-endian uint128 representation into the low 16 bytes of a Data
// field, zeroing the unused high 16 bytes. Used by publisher-side
// tooling and tests to build feeds with a known decoded price.
func EncodePrice(price *big.Int) [32]byte {
	var data [32]byte
	b := price.Bytes()
	if len(b) > 16 {
		b = b[len(b)-16:]
	}
	copy(data[32-len(b):], b)
	return data
}
