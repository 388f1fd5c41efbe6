package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := New()
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
	store := New()
	_, err := store.GetAccount(chain.Pubkey{9})
	require.ErrorIs(t, err, chain.ErrAccountNotFound)
}

func TestStore_CreateDuplicateRejected(t *testing.T) {
	store := New()
	address := chain.Pubkey{1}
	require.NoError(t, store.CreateAccount(address, chain.Pubkey{}, 0, nil))
	require.Error(t, store.CreateAccount(address, chain.Pubkey{}, 0, nil))
}

func TestStore_WriteUpdatesData(t *testing.T) {
	store := New()
	address := chain.Pubkey{1}
	require.NoError(t, store.CreateAccount(address, chain.Pubkey{}, 0, []byte("a")))
	require.NoError(t, store.WriteAccount(address, []byte("b")))

	account, err := store.GetAccount(address)
	require.NoError(t, err)
	require.Equal(t, []byte("b"), account.Data)
}

func TestStore_WriteMissingAccountFails(t *testing.T) {
	store := New()
	require.ErrorIs(t, store.WriteAccount(chain.Pubkey{1}, nil), chain.ErrAccountNotFound)
}

func TestStore_ClosedRejectsOperations(t *testing.T) {
	store := New()
	require.NoError(t, store.Close())
	require.Error(t, store.HealthCheck())
	require.Error(t, store.CreateAccount(chain.Pubkey{1}, chain.Pubkey{}, 0, nil))
}

func TestStore_GetAccountReturnsACopy(t *testing.T) {
	store := New()
	address := chain.Pubkey{1}
	require.NoError(t, store.CreateAccount(address, chain.Pubkey{}, 0, []byte("a")))

	account, err := store.GetAccount(address)
	require.NoError(t, err)
	account.Data[0] = 'z'

	refetched, err := store.GetAccount(address)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), refetched.Data, "caller mutation must not leak into the store")
}
