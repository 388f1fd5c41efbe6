package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// LocalSigner signs with an in-process ECDSA private key. It exists for
// local development and tests, where AWS KMS custody is unnecessary
// overhead.
type LocalSigner struct {
	privateKey *ecdsa.PrivateKey
	address    [20]byte
}

// NewLocalSigner wraps an existing secp256k1 private key.
func NewLocalSigner(privateKey *ecdsa.PrivateKey) *LocalSigner {
	var address [20]byte
	copy(address[:], gethcrypto.PubkeyToAddress(privateKey.PublicKey).Bytes())
	return &LocalSigner{privateKey: privateKey, address: address}
}

// NewLocalSignerFromHex parses a hex-encoded secp256k1 private key (no
// 0x prefix required).
func NewLocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	privateKey, err := gethcrypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("signer: parse local key: %w", err)
	}
	return NewLocalSigner(privateKey), nil
}

func (s *LocalSigner) Sign(_ context.Context, digest [32]byte) (r, rS [32]byte, v byte, err error) {
	sig, err := gethcrypto.Sign(digest[:], s.privateKey)
	if err != nil {
		return r, rS, 0, fmt.Errorf("signer: sign: %w", err)
	}
	copy(r[:], sig[0:32])
	copy(rS[:], sig[32:64])
	return r, rS, sig[64], nil
}

func (s *LocalSigner) Address() [20]byte {
	return s.address
}
