// ====================================
// File: cmd/curvectl/app.go
// ====================================
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/blockchain/ledger"
	"github.com/oraichain/pump-fun-smart-contract/internal/bot"
	"github.com/oraichain/pump-fun-smart-contract/internal/config"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/raydium"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/program"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage/postgres"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/logger"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/metrics"
	"github.com/oraichain/pump-fun-smart-contract/internal/wallet"
)

const (
	eventBufferSize = 256
	shutdownTimeout = 30 * time.Second
)

type options struct {
	configFile  string
	stateFile   string
	walletsFile string
	signer      string
	autoMigrate bool
}

// app is the wiring shared by every command. It lives for one command invocation.
type app struct {
	opts *options
	cfg  *config.Config
	log  *logger.Logger

	store    storage.Store
	snapshot *storage.MemoryStore
	journal  storage.Journal
	ledger   *ledger.Ledger
	amm      *raydium.AMM
	bus      *events.Bus
	metrics  *metrics.Collector
	program  *program.Program
	wallets  *wallet.Book
	migrator *bot.MigrationBot
	shutdown *bot.ShutdownHandler
}

func newApp(ctx context.Context, opts *options) (*app, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.stateFile != "" {
		cfg.StateFile = opts.stateFile
	}
	if opts.walletsFile != "" {
		cfg.WalletsFile = opts.walletsFile
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{
		opts:     opts,
		cfg:      cfg,
		log:      log,
		shutdown: bot.NewShutdownHandler(log.Logger, shutdownTimeout),
		metrics:  metrics.NewCollector(),
		wallets:  wallet.NewBook(),
	}
	a.shutdown.Add("logger", log)

	if err := a.openStore(); err != nil {
		return nil, a.fail(err)
	}

	if cfg.WalletsFile != "" {
		book, err := wallet.LoadWallets(cfg.WalletsFile)
		switch {
		case err == nil:
			a.wallets = book
		case !errors.Is(err, os.ErrNotExist):
			return nil, a.fail(err)
		}
	}

	a.ledger = ledger.New(a.store, log.Logger)
	a.amm = raydium.NewAMM(a.store, a.ledger, log.Logger)
	a.bus = events.NewBus(log.Logger, eventBufferSize)

	popts := []program.Option{
		program.WithJournal(a.journal),
		program.WithPublisher(a.bus),
		program.WithMetrics(a.metrics),
	}
	if cfg.ProgramID != "" {
		popts = append(popts, program.WithProgramID(config.PublicKeyOrZero(cfg.ProgramID)))
	}
	if cfg.Deployer != "" {
		popts = append(popts, program.WithDeployer(config.PublicKeyOrZero(cfg.Deployer)))
	}
	if a.program, err = program.New(a.store, a.ledger, a.amm, log.Logger, popts...); err != nil {
		return nil, a.fail(err)
	}

	if opts.autoMigrate {
		signer, err := a.signer()
		if err != nil {
			return nil, a.fail(err)
		}
		a.migrator = bot.NewMigrationBot(a.program, a.bus, signer, cfg.MigrationBot(), log.Logger)
		a.migrator.Start(ctx)
		a.shutdown.AddFunc("migration_bot", func() error {
			drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return errors.Join(a.migrator.Drain(drainCtx), a.migrator.Close())
		})
	}
	// Closed before the bot so that queued completion events still reach it.
	a.shutdown.AddFunc("event_bus", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.bus.Shutdown(ctx)
	})
	return a, nil
}

func (a *app) openStore() error {
	if a.cfg.PostgresDSN != "" {
		pg, err := postgres.NewStorage(a.cfg.PostgresDSN, a.log.Logger)
		if err != nil {
			return err
		}
		a.shutdown.Add("postgres", pg)
		if err := pg.RunMigrations(); err != nil {
			return err
		}
		a.store, a.journal = pg, pg
		return nil
	}

	mem := storage.NewMemoryStore(a.log.Logger)
	if err := mem.Load(a.cfg.StateFile); err != nil {
		return err
	}
	a.shutdown.Add("memory_store", mem)
	a.store, a.snapshot, a.journal = mem, mem, storage.NewMemoryJournal()
	return nil
}

// fail releases whatever was opened before err.
func (a *app) fail(err error) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(err, a.shutdown.Shutdown(ctx))
}

// close drains background work, persists state and releases every service. The snapshot
// is taken after the bus and bot have finished so automatic migrations are included.
func (a *app) close(ctx context.Context) error {
	var errs []error
	drainCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := a.bus.Shutdown(drainCtx); err != nil {
		errs = append(errs, err)
	}
	if a.migrator != nil {
		if err := a.migrator.Drain(drainCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.snapshot != nil {
		if err := a.snapshot.Save(a.cfg.StateFile); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteFile(a.cfg.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	errs = append(errs, a.shutdown.Shutdown(ctx))
	return errors.Join(errs...)
}

// signer returns the key of the --as wallet.
func (a *app) signer() (solana.PublicKey, error) {
	if a.opts.signer == "" {
		return solana.PublicKey{}, errors.New("no signer: pass --as <wallet name>")
	}
	w, err := a.wallets.Get(a.opts.signer)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return w.PublicKey, nil
}
