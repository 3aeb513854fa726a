package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
)

// Set PUMPFUN_TEST_POSTGRES_DSN to run against a live database.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("PUMPFUN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PUMPFUN_TEST_POSTGRES_DSN not set")
	}
	s, err := NewStorage(dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.RunMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorageRollback(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Put(key.PublicKey(), []byte("data")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.View(ctx, func(ctx context.Context) error {
		tx, _ := storage.TxFrom(ctx)
		_, err := tx.Get(key.PublicKey())
		return err
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorageUpsert(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	for _, v := range []string{"one", "two"} {
		require.NoError(t, s.Update(ctx, func(ctx context.Context) error {
			tx, _ := storage.TxFrom(ctx)
			return tx.Put(key.PublicKey(), []byte(v))
		}))
	}

	require.NoError(t, s.View(ctx, func(ctx context.Context) error {
		tx, _ := storage.TxFrom(ctx)
		data, err := tx.Get(key.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, "two", string(data))
		return nil
	}))
}
