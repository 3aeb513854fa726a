// =============================
// File: internal/dex/pumpfun/launch.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

// LaunchParams describes a new token and its curve.
type LaunchParams struct {
	Mint solana.PublicKey

	Decimals uint8
	// TokenSupply is in raw units and must be a whole number of tokens.
	TokenSupply uint64
	// ReserveAmount is the initial lamport reserve.
	ReserveAmount uint64

	Name   string
	Symbol string
	URI    string
}

// ValidateLaunch checks launch parameters against the configuration. Checks run in a fixed
// order and the first failure is returned.
func ValidateLaunch(cfg *GlobalConfig, p LaunchParams) error {
	unit, err := fixedpoint.Pow10(p.Decimals)
	if err != nil {
		return fmt.Errorf("decimals %d: %w", p.Decimals, ErrValueInvalid)
	}
	if p.TokenSupply%unit != 0 {
		return fmt.Errorf("token supply %d is not a whole number of %d-decimal tokens: %w",
			p.TokenSupply, p.Decimals, ErrValueInvalid)
	}

	if err := cfg.LamportAmountConfig.Validate(p.ReserveAmount); err != nil {
		return fmt.Errorf("reserve amount: %w", err)
	}
	if err := cfg.TokenSupplyConfig.Validate(p.TokenSupply / unit); err != nil {
		return fmt.Errorf("token supply: %w", err)
	}
	if err := cfg.TokenDecimalsConfig.Validate(p.Decimals); err != nil {
		return fmt.Errorf("token decimals: %w", err)
	}
	return nil
}

// Launch validates the parameters and returns the new curve. Minting the supply into custody
// and revoking the mint authority are performed by the caller against the ledger.
func Launch(cfg *GlobalConfig, creator solana.PublicKey, p LaunchParams) (*BondingCurve, error) {
	if err := ValidateLaunch(cfg, p); err != nil {
		return nil, err
	}
	return NewBondingCurve(p.Mint, creator, p.ReserveAmount, p.TokenSupply), nil
}
