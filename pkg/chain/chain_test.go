package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveAddress_Deterministic(t *testing.T) {
	programID := Pubkey{1}
	a := DeriveAddress(programID, []byte("UDF0"), []byte("LAST_UPDATE"))
	b := DeriveAddress(programID, []byte("UDF0"), []byte("LAST_UPDATE"))
	require.Equal(t, a, b)
}

func TestDeriveAddress_SensitiveToSeeds(t *testing.T) {
	programID := Pubkey{1}
	a := DeriveAddress(programID, []byte("UDF0"), []byte("LAST_UPDATE"), []byte{1})
	b := DeriveAddress(programID, []byte("UDF0"), []byte("LAST_UPDATE"), []byte{2})
	require.NotEqual(t, a, b)
}

func TestDeriveAddress_SensitiveToProgramID(t *testing.T) {
	seed := []byte("CONFIG")
	a := DeriveAddress(Pubkey{1}, seed)
	b := DeriveAddress(Pubkey{2}, seed)
	require.NotEqual(t, a, b)
}

func TestPubkey_IsZero(t *testing.T) {
	require.True(t, Pubkey{}.IsZero())
	require.False(t, Pubkey{1}.IsZero())
}

func TestParsePubkeyHex_RoundTrips(t *testing.T) {
	want := Pubkey{1, 2, 3}
	parsed, err := ParsePubkeyHex(want.String())
	require.NoError(t, err)
	require.Equal(t, want, parsed)
}

func TestParsePubkeyHex_RejectsWrongLength(t *testing.T) {
	_, err := ParsePubkeyHex("aabb")
	require.Error(t, err)
}
