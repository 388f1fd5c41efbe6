// Package program implements the on-chain oracle program's instruction
// handlers over the pkg/chain account model: Initialize, UpdateMultipleAssets,
// GetLastPrice and the update_asset logic they share.
//
// Grounded on original_source/programs/udf-solana/src/lib.rs and
// data.rs, which this package follows seed-for-seed and error-for-error;
// the teacher repo contributes the surrounding idiom (typed sentinel
// errors, zap logging at the write boundary) since nothing in the
// example pack implements a Solana-style on-chain program directly.
package program

import (
	"github.com/mr-tron/base58"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
)

// Seed namespaces, taken verbatim from the original program.
var (
	rootSeed       = []byte("UDF0")
	photonRootSeed = []byte("r0")

	configSeed     = []byte("CONFIG")
	lastUpdateSeed = []byte("LAST_UPDATE")
	protocolSeed   = []byte("PROTOCOL")
)

// deployerBase58 is the non-mainnet deployer key from lib.rs, used by
// Initialize's first-run admin check.
const deployerBase58 = "2NNm83t5mF28YZYo3SGyitVHQGSLoppJ4RQnRhvRB8ZY"

// protocolInfoDiscriminator is ProtocolInfo's 8-byte Anchor account
// discriminator, copied from the Photon program so this program can
// read its ProtocolInfo accounts without owning them.
var protocolInfoDiscriminator = [8]byte{40, 62, 222, 136, 36, 92, 1, 233}

// ProtocolInfoOwner is the Photon program's ID in the original
// deployment. Program does not consult it: ProtocolInfo accounts are
// derived under, and owner-checked against, Config.Endpoint.
var ProtocolInfoOwner = chain.Pubkey{
	12, 50, 145, 223, 16, 33, 233, 37, 119, 186, 206, 30, 187, 117, 189, 70,
	23, 0, 141, 139, 21, 92, 169, 187, 124, 139, 89, 86, 127, 197, 95, 163,
}

func deployerPubkey() (chain.Pubkey, error) {
	decoded, err := base58.Decode(deployerBase58)
	if err != nil {
		return chain.Pubkey{}, err
	}
	var out chain.Pubkey
	copy(out[:], decoded)
	return out, nil
}

// ConfigAddress derives the program's singleton Config PDA.
func ConfigAddress(programID chain.Pubkey) chain.Pubkey {
	return chain.DeriveAddress(programID, rootSeed, configSeed)
}

// LatestUpdateAddress derives the LatestUpdate PDA for one (protocol_id, data_key).
func LatestUpdateAddress(programID chain.Pubkey, protocolID, dataKey [32]byte) chain.Pubkey {
	return chain.DeriveAddress(programID, rootSeed, lastUpdateSeed, protocolID[:], dataKey[:])
}

// ProtocolInfoAddress derives the foreign ProtocolInfo PDA, seeded under
// the Photon program recorded in Config.Endpoint rather than this
// program's own ID.
func ProtocolInfoAddress(endpoint chain.Pubkey, protocolID [32]byte) chain.Pubkey {
	return chain.DeriveAddress(endpoint, photonRootSeed, protocolSeed, protocolID[:])
}
