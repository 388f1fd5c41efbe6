package program

import (
	"encoding/binary"
	"fmt"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// Wire encoding for the three account types this program reads and
// writes. This is a fixed-width encoding private to this Go
// implementation, not a byte-for-byte port of Anchor's Borsh layout:
// pkg/chain already stands in for a validator rather than reproducing
// one, so this encoding only needs to be internally consistent, not
// wire-compatible with a real cluster. It still reuses the original
// program's 8-byte discriminator prefix and its Photon-owned
// ProtocolInfo encoding order so that the two are visibly the same
// schema wherever this spec quotes original_source.

func encodeConfig(c types.Config) []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, c.Admin[:]...)
	buf = append(buf, c.Endpoint[:]...)
	buf = append(buf, c.ProtocolID[:]...)
	return buf
}

// DecodeConfig is exported for pkg/publisher, which needs protocol_id to
// label the remaining accounts of an outgoing instruction.
func DecodeConfig(data []byte) (types.Config, error) {
	return decodeConfig(data)
}

func decodeConfig(data []byte) (types.Config, error) {
	if len(data) < 96 {
		return types.Config{}, fmt.Errorf("program: config account too short (%d bytes)", len(data))
	}
	var c types.Config
	copy(c.Admin[:], data[0:32])
	copy(c.Endpoint[:], data[32:64])
	copy(c.ProtocolID[:], data[64:96])
	return c, nil
}

func encodeLatestUpdate(u types.LatestUpdate) []byte {
	buf := make([]byte, 0, 72)
	buf = append(buf, u.DataKey[:]...)
	buf = append(buf, u.Data[:]...)
	var timestamp [8]byte
	binary.BigEndian.PutUint64(timestamp[:], u.DataTimestamp)
	buf = append(buf, timestamp[:]...)
	return buf
}

// DecodeLatestUpdate is exported for pkg/publisher/reader, which needs
// to decode a LatestUpdate account fetched through a chain.Ledger.
func DecodeLatestUpdate(data []byte) (types.LatestUpdate, error) {
	return decodeLatestUpdate(data)
}

func decodeLatestUpdate(data []byte) (types.LatestUpdate, error) {
	if len(data) < 72 {
		return types.LatestUpdate{}, fmt.Errorf("program: latest_update account too short (%d bytes)", len(data))
	}
	var u types.LatestUpdate
	copy(u.DataKey[:], data[0:32])
	copy(u.Data[:], data[32:64])
	u.DataTimestamp = binary.BigEndian.Uint64(data[64:72])
	return u, nil
}

// decodeProtocolInfo parses a ProtocolInfo account, requiring the
// Photon-defined 8-byte discriminator the original program relies on to
// trust a foreign-owned account's layout.
func decodeProtocolInfo(data []byte) (types.ProtocolInfo, error) {
	const headerLen = 8 + 1 + 8 + 32
	const perAddressLen = 20 + 32 + 32
	minLen := headerLen + perAddressLen*types.MaxTransmitters
	if len(data) < minLen {
		return types.ProtocolInfo{}, fmt.Errorf("program: protocol_info account too short (%d bytes, want >= %d)", len(data), minLen)
	}
	var discriminator [8]byte
	copy(discriminator[:], data[0:8])
	if discriminator != protocolInfoDiscriminator {
		return types.ProtocolInfo{}, fmt.Errorf("program: protocol_info account discriminator mismatch")
	}

	var info types.ProtocolInfo
	offset := 8
	info.IsInit = data[offset] != 0
	offset++
	info.ConsensusTargetRate = binary.BigEndian.Uint64(data[offset : offset+8])
	offset += 8
	copy(info.ProtocolAddress[:], data[offset:offset+32])
	offset += 32

	for i := 0; i < types.MaxTransmitters; i++ {
		copy(info.TransmittersRaw[i][:], data[offset:offset+20])
		offset += 20
	}
	for i := 0; i < types.MaxTransmitters; i++ {
		copy(info.Executors[i][:], data[offset:offset+32])
		offset += 32
	}
	for i := 0; i < types.MaxTransmitters; i++ {
		copy(info.Proposers[i][:], data[offset:offset+32])
		offset += 32
	}
	return info, nil
}

// EncodeProtocolInfo is exported for test fixtures and tooling that need
// to seed a foreign ProtocolInfo account in a chain.Ledger.
func EncodeProtocolInfo(info types.ProtocolInfo) []byte {
	buf := make([]byte, 0, 8+1+8+32+types.MaxTransmitters*(20+32+32))
	buf = append(buf, protocolInfoDiscriminator[:]...)
	if info.IsInit {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	var rate [8]byte
	binary.BigEndian.PutUint64(rate[:], info.ConsensusTargetRate)
	buf = append(buf, rate[:]...)
	buf = append(buf, info.ProtocolAddress[:]...)
	for _, addr := range info.TransmittersRaw {
		buf = append(buf, addr[:]...)
	}
	for _, addr := range info.Executors {
		buf = append(buf, addr[:]...)
	}
	for _, addr := range info.Proposers {
		buf = append(buf, addr[:]...)
	}
	return buf
}
