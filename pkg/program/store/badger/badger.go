// Package badger is a disk-backed chain.Ledger implementation.
//
// Grounded on the teacher's pkg/persistence/badger: SyncWrites for
// durability, a background value-log GC loop, and a zap-to-badger.Logger
// adapter (logger.go), repurposed here to store AccountInfo records
// instead of key-share versions.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
)

const keyPrefixAccount = "account:"

// Store is a Badger-backed chain.Ledger.
type Store struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// New opens (or creates) a Badger database at dataPath and starts its
// background GC loop.
func New(dataPath string, logger *zap.Logger) (*Store, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("badger: resolve path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &loggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %s: %w", absPath, err)
	}

	store := &Store{db: db, logger: logger}

	ctx, cancel := context.WithCancel(context.Background())
	store.gcCancel = cancel
	store.gcWg.Add(1)
	go store.runGC(ctx)

	logger.Sugar().Infow("badger ledger initialized", "path", absPath)
	return store, nil
}

func (s *Store) runGC(ctx context.Context) {
	defer s.gcWg.Done()
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.db.RunValueLogGC(0.5); err != nil && err != badgerdb.ErrNoRewrite {
				s.logger.Sugar().Warnw("badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func accountKey(address chain.Pubkey) []byte {
	return []byte(fmt.Sprintf("%s%x", keyPrefixAccount, address))
}

type wireAccount struct {
	Owner    chain.Pubkey `json:"owner"`
	Lamports uint64       `json:"lamports"`
	Data     []byte       `json:"data"`
}

func (s *Store) GetAccount(address chain.Pubkey) (*chain.AccountInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	var raw []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(accountKey(address))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("badger: get account: %w", err)
	}
	if raw == nil {
		return nil, chain.ErrAccountNotFound
	}

	var wire wireAccount
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("badger: unmarshal account: %w", err)
	}
	return &chain.AccountInfo{Owner: wire.Owner, Lamports: wire.Lamports, Data: wire.Data}, nil
}

func (s *Store) CreateAccount(address, owner chain.Pubkey, lamports uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(accountKey(address)); err == nil {
			return errAlreadyExists
		} else if err != badgerdb.ErrKeyNotFound {
			return err
		}

		raw, err := json.Marshal(wireAccount{Owner: owner, Lamports: lamports, Data: data})
		if err != nil {
			return err
		}
		return txn.Set(accountKey(address), raw)
	})
}

func (s *Store) WriteAccount(address chain.Pubkey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(accountKey(address))
		if err == badgerdb.ErrKeyNotFound {
			return chain.ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		var wire wireAccount
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &wire)
		}); err != nil {
			return err
		}
		wire.Data = data

		raw, err := json.Marshal(wire)
		if err != nil {
			return err
		}
		return txn.Set(accountKey(address), raw)
	})
}

func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.gcCancel()
	s.gcWg.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: close: %w", err)
	}
	s.logger.Sugar().Info("badger ledger closed")
	return nil
}

func (s *Store) HealthCheck() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return s.db.View(func(txn *badgerdb.Txn) error { return nil })
}
