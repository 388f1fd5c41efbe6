package priceformat

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	price := big.NewInt(123_456_789)
	data := EncodePrice(price)
	require.Equal(t, 0, price.Cmp(DecodePrice(data)))
}

func TestDecodePrice_IgnoresHighBytes(t *testing.T) {
	var data [32]byte
	data[0] = 0xFF // high bytes are garbage and must be ignored
	data[31] = 0x2A
	require.Equal(t, big.NewInt(0x2A), DecodePrice(data))
}

func TestEncodePrice_ZeroPads(t *testing.T) {
	data := EncodePrice(big.NewInt(1))
	for i := 0; i < 31; i++ {
		require.Equal(t, byte(0), data[i])
	}
	require.Equal(t, byte(1), data[31])
}
