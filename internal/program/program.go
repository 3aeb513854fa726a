// =====================================
// File: internal/program/program.go
// =====================================

// Package program is the instruction layer of the launchpad. Each exported operation is
// one instruction: it runs in a single storage transaction, moves assets through the
// ledger, journals its outcome and publishes its events once the transaction commits.
package program

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oraichain/pump-fun-smart-contract/internal/blockchain/ledger"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/raydium"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/metrics"
)

// ErrCurveNotFound is returned for a mint that was never launched.
var ErrCurveNotFound = errors.New("bonding curve not found")

// PoolCreator is the external AMM used by Migrate.
type PoolCreator interface {
	CreatePool(ctx context.Context, params raydium.CreatePoolParams) (*raydium.Pool, error)
}

// Option configures a Program.
type Option func(*Program)

// WithDeployer restricts the first Configure call to key.
func WithDeployer(key solana.PublicKey) Option {
	return func(p *Program) { p.deployer = &key }
}

// WithJournal records every instruction outcome.
func WithJournal(j storage.Journal) Option {
	return func(p *Program) { p.journal = j }
}

// WithPublisher delivers committed events.
func WithPublisher(pub events.Publisher) Option {
	return func(p *Program) { p.publisher = pub }
}

// WithMetrics records instruction outcomes on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Program) { p.metrics = c }
}

// WithProgramID derives all program addresses from id instead of pumpfun.ProgramID.
func WithProgramID(id solana.PublicKey) Option {
	return func(p *Program) { p.programID = id }
}

// Program executes launchpad instructions.
type Program struct {
	store     storage.Store
	ledger    *ledger.Ledger
	amm       PoolCreator
	journal   storage.Journal
	publisher events.Publisher
	metrics   *metrics.Collector
	deployer  *solana.PublicKey
	logger    *zap.Logger

	programID solana.PublicKey
	config    solana.PublicKey
	vault     solana.PublicKey
}

// New creates a Program over store.
func New(store storage.Store, l *ledger.Ledger, amm PoolCreator, logger *zap.Logger, opts ...Option) (*Program, error) {
	p := &Program{
		store:     store,
		ledger:    l,
		amm:       amm,
		logger:    logger.Named("program"),
		programID: pumpfun.ProgramID,
	}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.config, err = pumpfun.ConfigAddress(p.programID); err != nil {
		return nil, err
	}
	if p.vault, err = pumpfun.VaultAddress(p.programID); err != nil {
		return nil, err
	}

	p.logger.Debug("Program initialized",
		zap.String("program_id", p.programID.String()),
		zap.String("config", p.config.String()),
		zap.String("vault", p.vault.String()))
	return p, nil
}

// Vault returns the custody account of every curve.
func (p *Program) Vault() solana.PublicKey { return p.vault }

func (p *Program) ProgramID() solana.PublicKey { return p.programID }

// instruction collects what one call reports once it finishes.
type instruction struct {
	id        string
	name      string
	signer    solana.PublicKey
	mint      solana.PublicKey
	amountIn  uint64
	amountOut uint64
	events    []events.Event
}

func newInstruction(name string, signer, mint solana.PublicKey) *instruction {
	return &instruction{
		id:     uuid.New().String(),
		name:   name,
		signer: signer,
		mint:   mint,
	}
}

func (ix *instruction) base(t events.EventType) events.BaseEvent {
	return events.NewBase(t, ix.id)
}

func (ix *instruction) emit(e events.Event) {
	ix.events = append(ix.events, e)
}

// execute runs fn as one atomic instruction.
func (p *Program) execute(ctx context.Context, ix *instruction, fn func(ctx context.Context) error) error {
	start := time.Now()
	logger := p.logger.With(
		zap.String("instruction", ix.name),
		zap.String("instruction_id", ix.id),
		zap.String("signer", ix.signer.String()))
	if !ix.mint.IsZero() {
		logger = logger.With(zap.String("mint", ix.mint.String()))
	}
	logger.Debug("Executing instruction")

	err := p.store.Update(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		pending := ix.events
		tx.AfterCommit(func() { p.publish(pending) })
		return nil
	})
	elapsed := time.Since(start)
	p.record(ctx, ix, err, elapsed)
	if p.metrics != nil {
		p.metrics.RecordInstruction(ix.name, elapsed, err)
	}

	if err != nil {
		logger.Warn("Instruction failed",
			zap.String("kind", pumpfun.KindOf(err).String()),
			zap.Error(err))
		return err
	}
	logger.Info("Instruction executed",
		zap.Uint64("amount_in", ix.amountIn),
		zap.Uint64("amount_out", ix.amountOut),
		zap.Duration("elapsed", elapsed))
	return nil
}

func (p *Program) publish(pending []events.Event) {
	if p.publisher == nil {
		return
	}
	for _, e := range pending {
		if err := p.publisher.Publish(e); err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("event_type", string(e.Type())),
				zap.Error(err))
		}
	}
}

func (p *Program) record(ctx context.Context, ix *instruction, err error, elapsed time.Duration) {
	if p.journal == nil {
		return
	}
	entry := &models.Instruction{
		InstructionID: ix.id,
		Name:          ix.name,
		Signer:        ix.signer.String(),
		Status:        models.StatusSuccess,
		AmountIn:      ix.amountIn,
		AmountOut:     ix.amountOut,
		ExecutionTime: elapsed.Seconds(),
	}
	if !ix.mint.IsZero() {
		entry.Mint = ix.mint.String()
	}
	if err != nil {
		entry.Status = models.StatusFailed
		entry.ErrorMessage = err.Error()
		var perr *pumpfun.Error
		if errors.As(err, &perr) {
			entry.ErrorCode = perr.Code
		}
	}
	// The journal outlives a cancelled caller.
	if rerr := p.journal.Record(context.WithoutCancel(ctx), entry); rerr != nil {
		p.logger.Error("Failed to journal instruction",
			zap.String("instruction_id", ix.id),
			zap.Error(rerr))
	}
}

// GlobalConfig returns the stored configuration.
func (p *Program) GlobalConfig(ctx context.Context) (*pumpfun.GlobalConfig, error) {
	var cfg *pumpfun.GlobalConfig
	err := p.store.View(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = p.loadConfig(ctx)
		return err
	})
	return cfg, err
}

// Curve returns the bonding curve of mint.
func (p *Program) Curve(ctx context.Context, mint solana.PublicKey) (*pumpfun.BondingCurve, error) {
	var bc *pumpfun.BondingCurve
	err := p.store.View(ctx, func(ctx context.Context) error {
		var err error
		bc, err = p.loadCurve(ctx, mint)
		return err
	})
	return bc, err
}

// Curves lists every launched curve.
func (p *Program) Curves(ctx context.Context) ([]*pumpfun.BondingCurve, error) {
	var curves []*pumpfun.BondingCurve
	err := p.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		return tx.Scan(pumpfun.BondingCurveDiscriminator[:], func(key solana.PublicKey, data []byte) error {
			bc, err := pumpfun.DecodeBondingCurve(data)
			if err != nil {
				return fmt.Errorf("curve %s: %w", key, err)
			}
			curves = append(curves, bc)
			return nil
		})
	})
	return curves, err
}

func (p *Program) loadConfig(ctx context.Context) (*pumpfun.GlobalConfig, error) {
	cfg, err := p.findConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, pumpfun.ErrNotConfigured
	}
	return cfg, nil
}

// findConfig returns nil without error while the program is unconfigured.
func (p *Program) findConfig(ctx context.Context) (*pumpfun.GlobalConfig, error) {
	tx, err := storage.TxFrom(ctx)
	if err != nil {
		return nil, err
	}
	data, err := tx.Get(p.config)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pumpfun.DecodeGlobalConfig(data)
}

func (p *Program) storeConfig(ctx context.Context, cfg *pumpfun.GlobalConfig) error {
	tx, err := storage.TxFrom(ctx)
	if err != nil {
		return err
	}
	data, err := pumpfun.EncodeGlobalConfig(cfg)
	if err != nil {
		return err
	}
	return tx.Put(p.config, data)
}

func (p *Program) loadCurve(ctx context.Context, mint solana.PublicKey) (*pumpfun.BondingCurve, error) {
	tx, err := storage.TxFrom(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := pumpfun.BondingCurveAddress(p.programID, mint)
	if err != nil {
		return nil, err
	}
	data, err := tx.Get(addr)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("mint %s: %w: %w", mint, ErrCurveNotFound, pumpfun.ErrValueInvalid)
	}
	if err != nil {
		return nil, err
	}
	return pumpfun.DecodeBondingCurve(data)
}

func (p *Program) storeCurve(ctx context.Context, bc *pumpfun.BondingCurve) error {
	tx, err := storage.TxFrom(ctx)
	if err != nil {
		return err
	}
	addr, err := pumpfun.BondingCurveAddress(p.programID, bc.TokenMint)
	if err != nil {
		return err
	}
	data, err := pumpfun.EncodeBondingCurve(bc)
	if err != nil {
		return err
	}
	return tx.Put(addr, data)
}

func (p *Program) curveAddress(mint solana.PublicKey) solana.PublicKey {
	addr, _ := pumpfun.BondingCurveAddress(p.programID, mint)
	return addr
}
