package signer

import (
	"context"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestLocalSigner_SignRecoversToOwnAddress(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	s := NewLocalSigner(key)

	digest := [32]byte{1, 2, 3}
	r, sVal, v, err := s.Sign(context.Background(), digest)
	require.NoError(t, err)

	signature := make([]byte, 65)
	copy(signature[0:32], r[:])
	copy(signature[32:64], sVal[:])
	signature[64] = v

	recovered, err := gethcrypto.Ecrecover(digest[:], signature)
	require.NoError(t, err)
	recoveredKey, err := gethcrypto.UnmarshalPubkey(recovered)
	require.NoError(t, err)

	var recoveredAddr [20]byte
	copy(recoveredAddr[:], gethcrypto.PubkeyToAddress(*recoveredKey).Bytes())
	require.Equal(t, s.Address(), recoveredAddr)
}

func TestNewLocalSignerFromHex_RejectsGarbage(t *testing.T) {
	_, err := NewLocalSignerFromHex("not-hex")
	require.Error(t, err)
}
