package signer

import (
	"context"
	"crypto/ecdsa"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// secp256k1 curve order, used for low-S canonicalization: KMS returns
// either (r, s) or (r, curveOrder-s) arbitrarily, and only the low-S
// form is accepted by this system's signature verification.
var secp256k1Order, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

type asn1EcSig struct {
	R *big.Int
	S *big.Int
}

// KMSSigner signs through an AWS KMS asymmetric ECDSA_SECP256K1 key,
// never exposing the private key material to this process.
type KMSSigner struct {
	client         *kms.Client
	keyID          string
	expectedPubKey *ecdsa.PublicKey
	address        [20]byte
}

// NewKMSSigner resolves keyID's public key once at construction (so
// later signing calls can brute-force the correct recovery id without a
// round-trip) and derives the Ethereum-style address it will sign for.
func NewKMSSigner(ctx context.Context, client *kms.Client, keyID string) (*KMSSigner, error) {
	out, err := client.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get public key for key %s", keyID)
	}

	pubKey, err := parseECDSAPublicKey(out.PublicKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse public key for key %s", keyID)
	}

	var address [20]byte
	copy(address[:], gethcrypto.PubkeyToAddress(*pubKey).Bytes())

	return &KMSSigner{client: client, keyID: keyID, expectedPubKey: pubKey, address: address}, nil
}

func (k *KMSSigner) Sign(ctx context.Context, digest [32]byte) (r, s [32]byte, v byte, err error) {
	out, err := k.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(k.keyID),
		Message:          digest[:],
		SigningAlgorithm: kmstypes.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      kmstypes.MessageTypeDigest,
	})
	if err != nil {
		return r, s, 0, errors.Wrapf(err, "failed to sign digest with key %s", k.keyID)
	}

	var sigAsn1 asn1EcSig
	if _, err := asn1.Unmarshal(out.Signature, &sigAsn1); err != nil {
		return r, s, 0, errors.Wrapf(err, "failed to parse KMS signature for key %s", k.keyID)
	}

	sVal := sigAsn1.S
	halfOrder := new(big.Int).Rsh(secp256k1Order, 1)
	if sVal.Cmp(halfOrder) > 0 {
		sVal = new(big.Int).Sub(secp256k1Order, sVal)
	}

	rBytes := sigAsn1.R.FillBytes(make([]byte, 32))
	sBytes := sVal.FillBytes(make([]byte, 32))
	copy(r[:], rBytes)
	copy(s[:], sBytes)

	recoveryID, err := k.recoverID(digest, rBytes, sBytes)
	if err != nil {
		return r, s, 0, err
	}
	return r, s, recoveryID, nil
}

// recoverID brute-forces which of the two possible recovery ids matches
// the key's known public key, since KMS's Sign response does not
// include one.
func (k *KMSSigner) recoverID(digest [32]byte, rBytes, sBytes []byte) (byte, error) {
	for recoveryID := byte(0); recoveryID < 2; recoveryID++ {
		signature := make([]byte, 65)
		copy(signature[0:32], rBytes)
		copy(signature[32:64], sBytes)
		signature[64] = recoveryID

		recovered, err := gethcrypto.Ecrecover(digest[:], signature)
		if err != nil {
			continue
		}
		recoveredKey, err := gethcrypto.UnmarshalPubkey(recovered)
		if err != nil {
			continue
		}
		if recoveredKey.X.Cmp(k.expectedPubKey.X) == 0 && recoveredKey.Y.Cmp(k.expectedPubKey.Y) == 0 {
			return recoveryID, nil
		}
	}
	return 0, fmt.Errorf("signer: could not determine recovery id for key %s", k.keyID)
}

func (k *KMSSigner) Address() [20]byte {
	return k.address
}

// parseECDSAPublicKey decodes the DER-encoded SubjectPublicKeyInfo KMS
// returns for an ECDSA_SECP256K1 key into a secp256k1 public point.
func parseECDSAPublicKey(der []byte) (*ecdsa.PublicKey, error) {
	var spki struct {
		Algorithm struct {
			Algorithm  asn1.ObjectIdentifier
			Parameters asn1.ObjectIdentifier
		}
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, fmt.Errorf("parse SubjectPublicKeyInfo: %w", err)
	}

	pubKey, err := gethcrypto.UnmarshalPubkey(spki.PublicKey.Bytes)
	if err != nil {
		return nil, fmt.Errorf("unmarshal secp256k1 point: %w", err)
	}
	return pubKey, nil
}
