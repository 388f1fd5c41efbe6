// Package redis is a Redis-backed chain.Ledger implementation, suitable
// for cloud-native multi-instance deployments.
//
// Grounded on the teacher's pkg/persistence/redis: a namespaced key
// prefix, a Ping-on-construction connectivity check, and an optional
// per-tenant KeyPrefix, repurposed to store AccountInfo records.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
)

const keyPrefixAccount = "udf:account:"

// Config holds the connection parameters for a Redis-backed ledger.
type Config struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// Store is a Redis-backed chain.Ledger.
type Store struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// New connects to Redis at cfg.Address and verifies connectivity with a
// Ping before returning.
func New(cfg *Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis: config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis: address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connect to %s: %w", cfg.Address, err)
	}

	store := &Store{client: client, logger: logger, keyPrefix: cfg.KeyPrefix}
	logger.Sugar().Infow("redis ledger initialized", "address", cfg.Address, "db", cfg.DB)
	return store, nil
}

func (s *Store) key(address chain.Pubkey) string {
	return fmt.Sprintf("%s%s%x", s.keyPrefix, keyPrefixAccount, address)
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key(address)).Bytes()
	if err == redis.Nil {
		return nil, chain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get account: %w", err)
	}

	var wire wireAccount
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("redis: unmarshal account: %w", err)
	}
	return &chain.AccountInfo{Owner: wire.Owner, Lamports: wire.Lamports, Data: wire.Data}, nil
}

func (s *Store) CreateAccount(address, owner chain.Pubkey, lamports uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := json.Marshal(wireAccount{Owner: owner, Lamports: lamports, Data: data})
	if err != nil {
		return err
	}

	set, err := s.client.SetNX(ctx, s.key(address), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: create account: %w", err)
	}
	if !set {
		return errAlreadyExists
	}
	return nil
}

func (s *Store) WriteAccount(address chain.Pubkey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key(address)).Bytes()
	if err == redis.Nil {
		return chain.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("redis: write account: %w", err)
	}

	var wire wireAccount
	if err := json.Unmarshal(raw, &wire); err != nil {
		return fmt.Errorf("redis: unmarshal account: %w", err)
	}
	wire.Data = data

	updated, err := json.Marshal(wire)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(address), updated, 0).Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redis: close: %w", err)
	}
	s.logger.Sugar().Info("redis ledger closed")
	return nil
}

func (s *Store) HealthCheck() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}
