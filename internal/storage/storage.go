// =================================
// File: internal/storage/storage.go
// =================================
package storage

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

var (
	// ErrNotFound is returned by Tx.Get for an account that does not exist.
	ErrNotFound = errors.New("storage: account not found")
	// ErrReadOnly is returned by writes inside a View transaction.
	ErrReadOnly = errors.New("storage: read-only transaction")
	// ErrNoTransaction is returned when an operation expects a transaction in its context.
	ErrNoTransaction = errors.New("storage: no transaction in context")
)

// Tx is a view of the account database inside one atomic operation. Writes become visible
// to other transactions only after the enclosing Update returns nil.
type Tx interface {
	Get(key solana.PublicKey) ([]byte, error)
	Put(key solana.PublicKey, data []byte) error
	Delete(key solana.PublicKey) error
	// Scan calls fn for every account whose data starts with prefix, in key order.
	Scan(prefix []byte, fn func(key solana.PublicKey, data []byte) error) error
	// AfterCommit registers fn to run once the transaction has committed. It is dropped on rollback.
	AfterCommit(fn func())
	Writable() bool
}

// Store is an account database with all-or-nothing transactions.
type Store interface {
	// Update runs fn in a read-write transaction carried by the context passed to fn. If
	// ctx already carries a writable transaction, fn joins it.
	Update(ctx context.Context, fn func(ctx context.Context) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(ctx context.Context) error) error
	Close() error
}

// Journal records every executed instruction.
type Journal interface {
	Record(ctx context.Context, entry *models.Instruction) error
	List(ctx context.Context, limit, offset int) ([]*models.Instruction, error)
}

type txKey struct{}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the transaction carried by ctx.
func TxFrom(ctx context.Context) (Tx, error) {
	tx, ok := ctx.Value(txKey{}).(Tx)
	if !ok {
		return nil, ErrNoTransaction
	}
	return tx, nil
}

// joinable reports the writable transaction already carried by ctx, if any.
func joinable(ctx context.Context) (Tx, bool) {
	tx, err := TxFrom(ctx)
	if err != nil || !tx.Writable() {
		return nil, false
	}
	return tx, true
}
