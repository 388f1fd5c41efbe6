// Package signer provides the publisher's transaction-signing seam: a
// local-keypair implementation for development, and an AWS-KMS-backed
// implementation for production key custody.
//
// Grounded on the teacher's pkg/transactionSigner.ITransactionSigner
// (a narrow interface separating "what gets signed" from "how"), and on
// internal/keyGenerator/awsKms.AWSKMSKeyGenerator.getSignatureFromKms for
// the KMS signing path (ASN.1 DER signature parsing, low-S
// canonicalization, and recovery-id brute-forcing against the known
// public key since KMS does not return one).
package signer

import "context"

// Signer signs a 32-byte digest and identifies itself by address. Every
// implementation must return a recovery-id-normalized, low-S signature:
// (r, s) with s <= curveOrder/2 and v in {0, 1}.
type Signer interface {
	// Sign returns (r, s, v) for digest.
	Sign(ctx context.Context, digest [32]byte) (r, s [32]byte, v byte, err error)

	// Address returns the signer's Ethereum-style address.
	Address() [20]byte
}
