package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
solana:
  read_rpcs:
    - url: https://read.example
  write_rpcs:
    - url: https://write1.example
    - url: https://write2.example
  chain_id: 101
persistence:
  type: memory
signer:
  type: local
  local_private_key_hex: "0x01"
program_id: aa
endpoint: bb
protocol_id: cc
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publisher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_ParsesNestedFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	require.Equal(t, []string{"https://read.example"}, cfg.ReadRPCURLs())
	require.Equal(t, []string{"https://write1.example", "https://write2.example"}, cfg.WriteRPCURLs())
	require.Equal(t, uint64(101), cfg.Solana.ChainID)
	require.Equal(t, "memory", cfg.Persistence.Type)
	require.Equal(t, "0x01", cfg.LocalPrivateKeyHex())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ENTANGLE_PERSISTENCE_TYPE", "badger")
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.Equal(t, "badger", cfg.Persistence.Type)
}

func TestLoad_RejectsEmptyReadRPCs(t *testing.T) {
	_, err := Load(writeConfig(t, `
solana:
  write_rpcs:
    - url: https://write.example
persistence:
  type: memory
signer:
  type: local
  local_private_key_hex: "0x01"
`))
	require.Error(t, err)
}

func TestLoad_RejectsUnknownPersistenceType(t *testing.T) {
	_, err := Load(writeConfig(t, `
solana:
  read_rpcs:
    - url: https://read.example
  write_rpcs:
    - url: https://write.example
persistence:
  type: carrier-pigeon
signer:
  type: local
  local_private_key_hex: "0x01"
`))
	require.Error(t, err)
}
