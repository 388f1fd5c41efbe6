package redis

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
)

// testRedisAddress returns the Redis address for testing. Uses
// REDIS_TEST_ADDRESS if set, otherwise defaults to localhost:6379.
func testRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireStore skips the test if Redis is not reachable, rather than
// failing CI runs that have no Redis sidecar.
func requireStore(t *testing.T) *Store {
	t.Helper()
	cfg := &Config{Address: testRedisAddress(), DB: 15, KeyPrefix: "test:"}
	store, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Skipf("redis not available at %s: %v", cfg.Address, err)
		return nil
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	store := requireStore(t)

	address := chain.Pubkey{1}
	owner := chain.Pubkey{2}
	require.NoError(t, store.CreateAccount(address, owner, 100, []byte("hello")))

	account, err := store.GetAccount(address)
	require.NoError(t, err)
	require.Equal(t, owner, account.Owner)
	require.Equal(t, uint64(100), account.Lamports)
	require.Equal(t, []byte("hello"), account.Data)
}

func TestStore_GetMissingAccount(t *testing.T) {
	store := requireStore(t)
	_, err := store.GetAccount(chain.Pubkey{9})
	require.ErrorIs(t, err, chain.ErrAccountNotFound)
}

func TestStore_CreateDuplicateRejected(t *testing.T) {
	store := requireStore(t)
	address := chain.Pubkey{3}
	require.NoError(t, store.CreateAccount(address, chain.Pubkey{}, 0, nil))
	require.Error(t, store.CreateAccount(address, chain.Pubkey{}, 0, nil))
}

func TestStore_WriteUpdatesData(t *testing.T) {
	store := requireStore(t)
	address := chain.Pubkey{4}
	require.NoError(t, store.CreateAccount(address, chain.Pubkey{}, 0, []byte("a")))
	require.NoError(t, store.WriteAccount(address, []byte("b")))

	account, err := store.GetAccount(address)
	require.NoError(t, err)
	require.Equal(t, []byte("b"), account.Data)
}

func TestNew_RejectsEmptyAddress(t *testing.T) {
	_, err := New(&Config{}, zap.NewNop())
	require.Error(t, err)
}
