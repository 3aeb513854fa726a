// internal/storage/postgres/postgres.go
package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

const migrationLockID = 4_711

// gormLogger routes GORM logs to zap.
type gormLogger struct {
	zapLogger *zap.Logger
	logLevel  logger.LogLevel
}

func newGormLogger(zapLogger *zap.Logger) logger.Interface {
	return &gormLogger{
		zapLogger: zapLogger,
		logLevel:  logger.Warn,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.zapLogger.Sugar().Infof(msg, data...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.zapLogger.Sugar().Warnf(msg, data...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.zapLogger.Sugar().Errorf(msg, data...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", time.Since(begin)),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	// A missing account is an expected lookup result.
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.zapLogger.Error("trace", append(fields, zap.Error(err))...)
		return
	}
	if l.logLevel >= logger.Info {
		l.zapLogger.Debug("trace", fields...)
	}
}

// Storage keeps accounts and the instruction journal in PostgreSQL. It implements both
// storage.Store and storage.Journal.
type Storage struct {
	db     *gorm.DB
	logger *zap.Logger
	// writeMu serializes Update transactions so the read-then-write of a record is never
	// interleaved with another writer.
	writeMu sync.Mutex
}

var (
	_ storage.Store   = (*Storage)(nil)
	_ storage.Journal = (*Storage)(nil)
)

// NewStorage connects to dsn.
func NewStorage(dsn string, zapLogger *zap.Logger) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(zapLogger.Named("gorm")),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Storage{
		db:     db,
		logger: zapLogger.Named("postgres"),
	}, nil
}

// RunMigrations creates the tables under a PostgreSQL advisory lock.
func (p *Storage) RunMigrations() error {
	var lockObtained bool
	if err := p.db.Raw("SELECT pg_try_advisory_lock(?)", migrationLockID).Scan(&lockObtained).Error; err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !lockObtained {
		return fmt.Errorf("another migration is in progress")
	}
	defer p.db.Exec("SELECT pg_advisory_unlock(?)", migrationLockID)

	if err := p.db.AutoMigrate(&models.Account{}, &models.Instruction{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (p *Storage) Update(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, err := storage.TxFrom(ctx); err == nil && tx.Writable() {
		return fn(ctx)
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	tx := &pgTx{writable: true}
	err := p.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		tx.db = gtx
		return fn(storage.WithTx(ctx, tx))
	})
	if err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

func (p *Storage) View(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, err := storage.TxFrom(ctx); err == nil {
		return fn(ctx)
	}

	tx := &pgTx{db: p.db.WithContext(ctx)}
	if err := fn(storage.WithTx(ctx, tx)); err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

func (p *Storage) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *Storage) Record(ctx context.Context, entry *models.Instruction) error {
	return p.db.WithContext(ctx).Create(entry).Error
}

func (p *Storage) List(ctx context.Context, limit, offset int) ([]*models.Instruction, error) {
	var entries []*models.Instruction
	err := p.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

type pgTx struct {
	db       *gorm.DB
	writable bool
	hooks    []func()
}

func (tx *pgTx) Get(key solana.PublicKey) ([]byte, error) {
	var account models.Account
	err := tx.db.Where("key = ?", key.String()).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", key, err)
	}
	return account.Data, nil
}

func (tx *pgTx) Put(key solana.PublicKey, data []byte) error {
	if !tx.writable {
		return storage.ErrReadOnly
	}
	account := models.Account{Key: key.String(), Data: bytes.Clone(data), UpdatedAt: time.Now().UTC()}
	err := tx.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&account).Error
	if err != nil {
		return fmt.Errorf("failed to store account %s: %w", key, err)
	}
	return nil
}

func (tx *pgTx) Delete(key solana.PublicKey) error {
	if !tx.writable {
		return storage.ErrReadOnly
	}
	return tx.db.Where("key = ?", key.String()).Delete(&models.Account{}).Error
}

func (tx *pgTx) Scan(prefix []byte, fn func(key solana.PublicKey, data []byte) error) error {
	var accounts []models.Account
	if err := tx.db.Order("key").Find(&accounts).Error; err != nil {
		return fmt.Errorf("failed to scan accounts: %w", err)
	}

	matched := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		if bytes.HasPrefix(account.Data, prefix) {
			matched = append(matched, account)
		}
	}
	keys := make(map[string]solana.PublicKey, len(matched))
	for _, account := range matched {
		key, err := solana.PublicKeyFromBase58(account.Key)
		if err != nil {
			return fmt.Errorf("invalid stored key %q: %w", account.Key, err)
		}
		keys[account.Key] = key
	}
	slices.SortFunc(matched, func(a, b models.Account) int {
		ka, kb := keys[a.Key], keys[b.Key]
		return bytes.Compare(ka[:], kb[:])
	})

	for _, account := range matched {
		if err := fn(keys[account.Key], account.Data); err != nil {
			return err
		}
	}
	return nil
}

func (tx *pgTx) AfterCommit(fn func()) {
	tx.hooks = append(tx.hooks, fn)
}

func (tx *pgTx) Writable() bool {
	return tx.writable
}
