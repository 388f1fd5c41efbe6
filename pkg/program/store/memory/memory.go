// Package memory is an in-process chain.Ledger backed by a map, used by
// unit tests and local development. It mirrors the lifecycle shape of
// the disk/network-backed stores (Close/HealthCheck) without needing
// either.
package memory

import (
	"sync"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
)

// Store is an in-memory chain.Ledger.
type Store struct {
	mu       sync.RWMutex
	accounts map[chain.Pubkey]*chain.AccountInfo
	closed   bool
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{accounts: make(map[chain.Pubkey]*chain.AccountInfo)}
}

func (s *Store) GetAccount(address chain.Pubkey) (*chain.AccountInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	account, ok := s.accounts[address]
	if !ok {
		return nil, chain.ErrAccountNotFound
	}
	clone := *account
	clone.Data = append([]byte(nil), account.Data...)
	return &clone, nil
}

func (s *Store) CreateAccount(address, owner chain.Pubkey, lamports uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	if _, exists := s.accounts[address]; exists {
		return errAlreadyExists
	}
	s.accounts[address] = &chain.AccountInfo{
		Owner:    owner,
		Lamports: lamports,
		Data:     append([]byte(nil), data...),
	}
	return nil
}

func (s *Store) WriteAccount(address chain.Pubkey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	account, ok := s.accounts[address]
	if !ok {
		return chain.ErrAccountNotFound
	}
	account.Data = append([]byte(nil), data...)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) HealthCheck() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}
