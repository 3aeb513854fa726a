// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/oraichain/pump-fun-smart-contract/internal/bot"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/logger"
)

// EnvPrefix prefixes every environment override, e.g. PUMPFUN_STATE_FILE.
const EnvPrefix = "PUMPFUN"

type Config struct {
	StateFile   string `mapstructure:"state_file" validate:"required"`
	WalletsFile string `mapstructure:"wallets_file"`
	ProgramID   string `mapstructure:"program_id"`
	// Deployer, when set, is the only key allowed to create the configuration.
	Deployer    string `mapstructure:"deployer"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	MetricsFile string `mapstructure:"metrics_file"`

	Logging   LoggingConfig   `mapstructure:"logging"`
	Migrator  MigratorConfig  `mapstructure:"migrator"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

type LoggingConfig struct {
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"`
	Compress    bool   `mapstructure:"compress"`
}

type MigratorConfig struct {
	Workers           int `mapstructure:"workers" validate:"gte=1,lte=64"`
	QueueSize         int `mapstructure:"queue_size" validate:"gte=1"`
	InitialIntervalMs int `mapstructure:"initial_interval_ms" validate:"gte=1"`
	MaxIntervalMs     int `mapstructure:"max_interval_ms" validate:"gtefield=InitialIntervalMs"`
	MaxElapsedMs      int `mapstructure:"max_elapsed_ms" validate:"gte=1"`
}

// AmountRule is an AmountConfig in file form: either bounds or an enumeration.
type AmountRule struct {
	Min  *uint64  `mapstructure:"min"`
	Max  *uint64  `mapstructure:"max"`
	Enum []uint64 `mapstructure:"enum"`
}

// BootstrapConfig holds the GlobalConfig parameters the configure command submits.
type BootstrapConfig struct {
	TeamWallet           string     `mapstructure:"team_wallet"`
	PlatformBuyFee       string     `mapstructure:"platform_buy_fee" validate:"required,numeric"`
	PlatformSellFee      string     `mapstructure:"platform_sell_fee" validate:"required,numeric"`
	PlatformMigrationFee string     `mapstructure:"platform_migration_fee" validate:"required,numeric"`
	CurveLimit           uint64     `mapstructure:"curve_limit" validate:"gt=0"`
	LamportAmount        AmountRule `mapstructure:"lamport_amount"`
	TokenSupply          AmountRule `mapstructure:"token_supply"`
	TokenDecimals        AmountRule `mapstructure:"token_decimals"`
}

const (
	DefaultStateFile       = "curvectl-state.bin"
	DefaultWorkers         = 2
	DefaultQueueSize       = 64
	DefaultInitialInterval = 500
	DefaultMaxInterval     = 5_000
	DefaultMaxElapsed      = 60_000
	DefaultCurveLimit      = 85_000_000_000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"state_file":                       DefaultStateFile,
		"logging.file":                     "",
		"logging.development":              false,
		"logging.max_size":                 100,
		"logging.max_age":                  7,
		"logging.max_backups":              3,
		"logging.compress":                 true,
		"migrator.workers":                 DefaultWorkers,
		"migrator.queue_size":              DefaultQueueSize,
		"migrator.initial_interval_ms":     DefaultInitialInterval,
		"migrator.max_interval_ms":         DefaultMaxInterval,
		"migrator.max_elapsed_ms":          DefaultMaxElapsed,
		"bootstrap.platform_buy_fee":       "1",
		"bootstrap.platform_sell_fee":      "1",
		"bootstrap.platform_migration_fee": "5",
		"bootstrap.curve_limit":            DefaultCurveLimit,
	}
}

// LoadConfig reads path (any format viper understands) and applies PUMPFUN_* overrides.
// An empty path loads defaults and the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for name, key := range map[string]string{
		"program_id":            cfg.ProgramID,
		"deployer":              cfg.Deployer,
		"bootstrap.team_wallet": cfg.Bootstrap.TeamWallet,
	} {
		if key == "" {
			continue
		}
		if _, err := solana.PublicKeyFromBase58(key); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	for name, rule := range map[string]AmountRule{
		"lamport_amount": cfg.Bootstrap.LamportAmount,
		"token_supply":   cfg.Bootstrap.TokenSupply,
		"token_decimals": cfg.Bootstrap.TokenDecimals,
	} {
		if len(rule.Enum) > 0 && (rule.Min != nil || rule.Max != nil) {
			return fmt.Errorf("bootstrap.%s: enum and bounds are exclusive", name)
		}
	}
	for _, d := range cfg.Bootstrap.TokenDecimals.Enum {
		if d > 255 {
			return errors.New("bootstrap.token_decimals: value exceeds 255")
		}
	}
	if b := cfg.Bootstrap.TokenDecimals; b.Max != nil && *b.Max > 255 {
		return errors.New("bootstrap.token_decimals: max exceeds 255")
	}
	return nil
}

// PublicKeyOrZero parses an optional base58 key already checked by validateConfig.
func PublicKeyOrZero(s string) solana.PublicKey {
	if s == "" {
		return solana.PublicKey{}
	}
	return solana.MustPublicKeyFromBase58(s)
}

// Logger returns the logger settings.
func (c *Config) Logger() *logger.Config {
	return &logger.Config{
		LogFile:     c.Logging.File,
		MaxSize:     c.Logging.MaxSize,
		MaxAge:      c.Logging.MaxAge,
		MaxBackups:  c.Logging.MaxBackups,
		Compress:    c.Logging.Compress,
		Development: c.Logging.Development,
	}
}

// MigrationBot returns the migration bot settings.
func (c *Config) MigrationBot() bot.MigratorConfig {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return bot.MigratorConfig{
		Workers:         c.Migrator.Workers,
		QueueSize:       c.Migrator.QueueSize,
		InitialInterval: ms(c.Migrator.InitialIntervalMs),
		MaxInterval:     ms(c.Migrator.MaxIntervalMs),
		MaxElapsed:      ms(c.Migrator.MaxElapsedMs),
	}
}

// GlobalConfig builds the configuration submitted by Configure. The team wallet defaults
// to authority when unset.
func (b BootstrapConfig) GlobalConfig(authority solana.PublicKey) (pumpfun.GlobalConfig, error) {
	fees := make([]decimal.Decimal, 3)
	for i, raw := range []string{b.PlatformBuyFee, b.PlatformSellFee, b.PlatformMigrationFee} {
		fee, err := decimal.NewFromString(raw)
		if err != nil {
			return pumpfun.GlobalConfig{}, fmt.Errorf("invalid fee %q: %w", raw, err)
		}
		fees[i] = fee
	}

	team := PublicKeyOrZero(b.TeamWallet)
	if team.IsZero() {
		team = authority
	}

	cfg := pumpfun.GlobalConfig{
		TeamWallet:           team,
		PlatformBuyFee:       fees[0],
		PlatformSellFee:      fees[1],
		PlatformMigrationFee: fees[2],
		CurveLimit:           b.CurveLimit,
		LamportAmountConfig:  amountConfig(b.LamportAmount),
		TokenSupplyConfig:    amountConfig(b.TokenSupply),
		TokenDecimalsConfig:  decimalsConfig(b.TokenDecimals),
	}
	return cfg, cfg.Validate()
}

func amountConfig(r AmountRule) pumpfun.AmountConfig[uint64] {
	if len(r.Enum) > 0 {
		return pumpfun.EnumConfig(r.Enum...)
	}
	return pumpfun.RangeConfig(r.Min, r.Max)
}

func decimalsConfig(r AmountRule) pumpfun.AmountConfig[uint8] {
	narrow := func(v *uint64) *uint8 {
		if v == nil {
			return nil
		}
		return pumpfun.Bound(uint8(*v))
	}
	if len(r.Enum) > 0 {
		values := make([]uint8, len(r.Enum))
		for i, v := range r.Enum {
			values[i] = uint8(v)
		}
		return pumpfun.EnumConfig(values...)
	}
	return pumpfun.RangeConfig(narrow(r.Min), narrow(r.Max))
}
