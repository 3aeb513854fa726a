// internal/bot/migrator.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/raydium"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/program"
)

var (
	ErrQueueFull     = errors.New("migration queue full")
	ErrStopped       = errors.New("migration bot stopped")
	ErrAlreadyQueued = errors.New("migration already queued")
)

// Migrator runs the migrate instruction.
type Migrator interface {
	Migrate(ctx context.Context, signer, mint solana.PublicKey, params program.MigrateParams) (*program.MigrateResult, error)
}

// MigratorConfig tunes the worker pool and retry policy.
type MigratorConfig struct {
	Workers         int
	QueueSize       int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsed bounds the retries of one migration.
	MaxElapsed time.Duration
}

func (c *MigratorConfig) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 500 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 10 * c.InitialInterval
	}
	if c.MaxElapsed <= 0 {
		c.MaxElapsed = time.Minute
	}
}

// MigratorStats counts finished migrations.
type MigratorStats struct {
	Migrated uint64
	Failed   uint64
	Retries  uint64
	Pending  int
}

// MigrationBot is the backend operator that migrates every curve as soon as it completes.
// It listens for CurveCompleted events and runs Migrate on a bounded worker pool, retrying
// transient AMM failures with exponential backoff.
type MigrationBot struct {
	migrator Migrator
	bus      *events.Bus
	signer   solana.PublicKey
	cfg      MigratorConfig
	logger   *zap.Logger

	mu      sync.Mutex
	queue   chan solana.PublicKey
	pending map[solana.PublicKey]struct{}
	stopped bool

	inflight sync.WaitGroup
	sub      events.Subscription
	cancel   context.CancelFunc
	done     chan error

	migrated atomic.Uint64
	failed   atomic.Uint64
	retries  atomic.Uint64
}

// NewMigrationBot creates a bot that signs migrations as signer.
func NewMigrationBot(m Migrator, bus *events.Bus, signer solana.PublicKey, cfg MigratorConfig, logger *zap.Logger) *MigrationBot {
	cfg.setDefaults()
	return &MigrationBot{
		migrator: m,
		bus:      bus,
		signer:   signer,
		cfg:      cfg,
		logger:   logger.Named("migration_bot"),
		queue:    make(chan solana.PublicKey, cfg.QueueSize),
		pending:  make(map[solana.PublicKey]struct{}),
	}
}

// Start subscribes to completion events and starts the workers.
func (b *MigrationBot) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	b.done = make(chan error, 1)

	b.sub = b.bus.Subscribe(events.CurveCompleted, events.Typed(
		func(_ context.Context, e events.CurveCompletedEvent) error {
			err := b.Enqueue(e.Mint)
			if errors.Is(err, ErrAlreadyQueued) {
				return nil
			}
			return err
		}))

	go func() { b.done <- b.run(ctx) }()

	b.logger.Info("Migration bot started",
		zap.Int("workers", b.cfg.Workers),
		zap.Int("queue_size", b.cfg.QueueSize),
		zap.String("signer", b.signer.String()))
}

// Enqueue schedules a migration of mint. It never blocks.
func (b *MigrationBot) Enqueue(mint solana.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return ErrStopped
	}
	if _, ok := b.pending[mint]; ok {
		return fmt.Errorf("%s: %w", mint, ErrAlreadyQueued)
	}

	b.inflight.Add(1)
	select {
	case b.queue <- mint:
		b.pending[mint] = struct{}{}
		b.logger.Debug("Migration queued", zap.String("mint", mint.String()))
		return nil
	default:
		b.inflight.Done()
		b.logger.Warn("Migration queue full", zap.String("mint", mint.String()))
		return fmt.Errorf("%s: %w", mint, ErrQueueFull)
	}
}

func (b *MigrationBot) run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)

	for {
		select {
		case <-gCtx.Done():
			b.discardQueued()
			return g.Wait()
		case mint, ok := <-b.queue:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				defer b.finish(mint)
				b.migrate(gCtx, mint)
				return nil
			})
		}
	}
}

func (b *MigrationBot) finish(mint solana.PublicKey) {
	b.mu.Lock()
	delete(b.pending, mint)
	b.mu.Unlock()
	b.inflight.Done()
}

func (b *MigrationBot) discardQueued() {
	for {
		select {
		case mint, ok := <-b.queue:
			if !ok {
				return
			}
			b.finish(mint)
		default:
			return
		}
	}
}

func (b *MigrationBot) migrate(ctx context.Context, mint solana.PublicKey) {
	logger := b.logger.With(zap.String("mint", mint.String()))
	attempts := 0

	operation := func() (*program.MigrateResult, error) {
		attempts++
		res, err := b.migrator.Migrate(ctx, b.signer, mint, program.MigrateParams{
			OpenTime: uint64(time.Now().Unix()),
		})
		if err == nil {
			return res, nil
		}
		if pumpfun.IsProtocolError(err) || !raydium.IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = b.cfg.InitialInterval
	policy.MaxInterval = b.cfg.MaxInterval

	notify := func(err error, next time.Duration) {
		b.retries.Add(1)
		logger.Info("Retrying migration",
			zap.Int("attempt", attempts),
			zap.Duration("backoff", next),
			zap.Error(err))
	}

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(b.cfg.MaxElapsed),
		backoff.WithNotify(notify))
	if err != nil {
		b.failed.Add(1)
		logger.Error("Migration failed",
			zap.Int("attempts", attempts),
			zap.String("kind", pumpfun.KindOf(err).String()),
			zap.Error(err))
		failEvent := events.OperationFailedEvent{
			BaseEvent: events.NewBase(events.OperationFailed, ""),
			Operation: "migrate",
			Mint:      mint,
			Attempts:  attempts,
			Error:     err,
		}
		if perr := b.bus.Publish(failEvent); perr != nil {
			logger.Warn("Failed to publish failure event", zap.Error(perr))
		}
		return
	}

	b.migrated.Add(1)
	logger.Info("Curve migrated",
		zap.Int("attempts", attempts),
		zap.String("pool", res.Pool.ID.String()),
		zap.Uint64("seed_base", res.Plan.SeedBase),
		zap.Uint64("seed_token", res.Plan.SeedToken))
}

// Drain waits until every queued migration has finished.
func (b *MigrationBot) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain migrations: %w", ctx.Err())
	}
}

// Close stops accepting work, lets queued migrations finish and stops the workers.
func (b *MigrationBot) Close() error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	close(b.queue)
	b.mu.Unlock()

	if b.sub != nil {
		b.sub.Unsubscribe()
	}
	if b.done == nil {
		return nil
	}
	err := <-b.done
	b.cancel()
	b.logger.Info("Migration bot stopped",
		zap.Uint64("migrated", b.migrated.Load()),
		zap.Uint64("failed", b.failed.Load()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stats returns the bot counters.
func (b *MigrationBot) Stats() MigratorStats {
	b.mu.Lock()
	pending := len(b.pending)
	b.mu.Unlock()
	return MigratorStats{
		Migrated: b.migrated.Load(),
		Failed:   b.failed.Load(),
		Retries:  b.retries.Load(),
		Pending:  pending,
	}
}
