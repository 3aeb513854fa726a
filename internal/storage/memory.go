// ================================
// File: internal/storage/memory.go
// ================================
package storage

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// MemoryStore keeps every account in process memory. Update transactions are serialized;
// View transactions run concurrently with each other.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey][]byte
	logger   *zap.Logger
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		accounts: make(map[solana.PublicKey][]byte),
		logger:   logger.Named("memory_store"),
	}
}

type pendingWrite struct {
	data    []byte
	deleted bool
}

type memoryTx struct {
	store    *MemoryStore
	writable bool
	writes   map[solana.PublicKey]pendingWrite
	hooks    []func()
}

func (s *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := joinable(ctx); ok {
		return fn(ctx)
	}

	tx, err := s.commit(ctx, fn)
	if err != nil {
		return err
	}

	s.logger.Debug("Transaction committed", zap.Int("writes", len(tx.writes)))
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

// commit runs fn under the write lock and applies its writes. The lock is released even
// when fn panics.
func (s *MemoryStore) commit(ctx context.Context, fn func(ctx context.Context) error) (*memoryTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s, writable: true, writes: make(map[solana.PublicKey]pendingWrite)}
	if err := fn(WithTx(ctx, tx)); err != nil {
		s.logger.Debug("Transaction rolled back",
			zap.Int("pending_writes", len(tx.writes)),
			zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transaction aborted: %w", err)
	}

	for key, w := range tx.writes {
		if w.deleted {
			delete(s.accounts, key)
			continue
		}
		s.accounts[key] = w.data
	}
	return tx, nil
}

func (s *MemoryStore) View(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, err := TxFrom(ctx); err == nil {
		return fn(WithTx(ctx, tx))
	}

	tx := &memoryTx{store: s}
	err := func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return fn(WithTx(ctx, tx))
	}()
	if err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored accounts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (tx *memoryTx) Get(key solana.PublicKey) ([]byte, error) {
	if w, ok := tx.writes[key]; ok {
		if w.deleted {
			return nil, ErrNotFound
		}
		return bytes.Clone(w.data), nil
	}
	data, ok := tx.store.accounts[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (tx *memoryTx) Put(key solana.PublicKey, data []byte) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.writes[key] = pendingWrite{data: bytes.Clone(data)}
	return nil
}

func (tx *memoryTx) Delete(key solana.PublicKey) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.writes[key] = pendingWrite{deleted: true}
	return nil
}

func (tx *memoryTx) Scan(prefix []byte, fn func(key solana.PublicKey, data []byte) error) error {
	merged := make(map[solana.PublicKey][]byte, len(tx.store.accounts))
	for key, data := range tx.store.accounts {
		merged[key] = data
	}
	for key, w := range tx.writes {
		if w.deleted {
			delete(merged, key)
			continue
		}
		merged[key] = w.data
	}

	keys := make([]solana.PublicKey, 0, len(merged))
	for key, data := range merged {
		if bytes.HasPrefix(data, prefix) {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b solana.PublicKey) int { return bytes.Compare(a[:], b[:]) })

	for _, key := range keys {
		if err := fn(key, bytes.Clone(merged[key])); err != nil {
			return err
		}
	}
	return nil
}

func (tx *memoryTx) AfterCommit(fn func()) {
	tx.hooks = append(tx.hooks, fn)
}

func (tx *memoryTx) Writable() bool {
	return tx.writable
}
