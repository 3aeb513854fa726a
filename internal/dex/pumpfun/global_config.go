// =============================================
// File: internal/dex/pumpfun/global_config.go
// =============================================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var maxFeePercent = decimal.NewFromInt(100)

// GlobalConfig holds the protocol-wide parameters. There is exactly one per program and
// every instruction reads it by value at call time.
type GlobalConfig struct {
	Authority solana.PublicKey
	// PendingAuthority is the nominated successor; zero when no handover is in progress.
	PendingAuthority solana.PublicKey

	TeamWallet solana.PublicKey

	// Fee percentages in [0, 100).
	PlatformBuyFee       decimal.Decimal
	PlatformSellFee      decimal.Decimal
	PlatformMigrationFee decimal.Decimal

	// CurveLimit is the lamport reserve at which a curve completes.
	CurveLimit uint64

	LamportAmountConfig AmountConfig[uint64]
	TokenSupplyConfig   AmountConfig[uint64]
	TokenDecimalsConfig AmountConfig[uint8]
}

// Validate checks the tunable parameters of a configuration.
func (c *GlobalConfig) Validate() error {
	fees := []struct {
		name string
		pct  decimal.Decimal
	}{
		{"platform_buy_fee", c.PlatformBuyFee},
		{"platform_sell_fee", c.PlatformSellFee},
		{"platform_migration_fee", c.PlatformMigrationFee},
	}
	for _, f := range fees {
		if f.pct.IsNegative() || f.pct.GreaterThanOrEqual(maxFeePercent) {
			return fmt.Errorf("%s must be in [0, 100), got %s: %w", f.name, f.pct, ErrValueInvalid)
		}
	}
	if c.CurveLimit == 0 {
		return fmt.Errorf("curve_limit must be positive: %w", ErrValueInvalid)
	}
	if c.TeamWallet.IsZero() {
		return fmt.Errorf("team_wallet is required: %w", ErrIncorrectTeamWallet)
	}
	return nil
}

// FeeFor returns the platform fee percentage for a swap direction.
func (c *GlobalConfig) FeeFor(direction Direction) decimal.Decimal {
	if direction == DirectionSell {
		return c.PlatformSellFee
	}
	return c.PlatformBuyFee
}

// Configure runs the Uninitialized -> Configured transition, or updates a configured
// program. On the first call there is no authority to check and the signer becomes the
// authority. Afterwards only the current authority may reconfigure, and the authority
// fields are carried over untouched: they change only through Nominate/Accept.
func Configure(current *GlobalConfig, signer solana.PublicKey, next GlobalConfig) (*GlobalConfig, error) {
	// An outsider gets ErrIncorrectAuthority whatever the parameters.
	if current != nil {
		if err := current.RequireAuthority(signer); err != nil {
			return nil, err
		}
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if current == nil {
		next.Authority = signer
		next.PendingAuthority = solana.PublicKey{}
		return &next, nil
	}
	next.Authority = current.Authority
	next.PendingAuthority = current.PendingAuthority
	return &next, nil
}

// Nominate records newAdmin as the pending authority. Only the current authority may call it.
func (c *GlobalConfig) Nominate(signer, newAdmin solana.PublicKey) error {
	if !c.Authority.Equals(signer) {
		return fmt.Errorf("signer %s cannot nominate: %w", signer, ErrIncorrectAuthority)
	}
	c.PendingAuthority = newAdmin
	return nil
}

// Accept commits the pending authority. Only the nominated identity may call it.
func (c *GlobalConfig) Accept(signer solana.PublicKey) error {
	if c.PendingAuthority.IsZero() || !c.PendingAuthority.Equals(signer) {
		return fmt.Errorf("signer %s is not the pending authority: %w", signer, ErrIncorrectAuthority)
	}
	c.Authority = signer
	c.PendingAuthority = solana.PublicKey{}
	return nil
}

// RequireAuthority fails with ErrIncorrectAuthority unless signer is the authority.
func (c *GlobalConfig) RequireAuthority(signer solana.PublicKey) error {
	if !c.Authority.Equals(signer) {
		return fmt.Errorf("signer %s is not the config authority: %w", signer, ErrIncorrectAuthority)
	}
	return nil
}
