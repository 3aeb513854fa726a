// =============================
// File: internal/dex/pumpfun/settlement.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

const (
	// FixedOverhead covers market creation (0.32), pool creation (0.4) and transaction costs (0.01).
	FixedOverhead uint64 = 730_000_000
	// SignerOverhead is paid to whoever triggers the migration.
	SignerOverhead uint64 = 330_000_000
)

// MintState is the part of a mint account the settlement checks look at.
type MintState struct {
	Decimals        uint8
	MintAuthority   *solana.PublicKey
	FreezeAuthority *solana.PublicKey
}

// MigrationPlan is the full set of amounts moved by a migration.
type MigrationPlan struct {
	LamportOnCurve uint64

	FeeLamport uint64
	FeeToken   uint64

	// SeedBase and SeedToken become the AMM pool's initial liquidity.
	SeedBase  uint64
	SeedToken uint64

	SignerLamport uint64
}

// WithdrawPlan is what the authority receives from Withdraw.
type WithdrawPlan struct {
	Lamport uint64
	Token   uint64
}

func (bc *BondingCurve) requireSettleable() error {
	if !bc.IsCompleted {
		return fmt.Errorf("curve %s: %w", bc.TokenMint, ErrCurveNotCompleted)
	}
	if bc.Stage.Settled() {
		return fmt.Errorf("curve %s is %s: %w", bc.TokenMint, bc.Stage, ErrCurveAlreadySettled)
	}
	return nil
}

// PlanMigration computes the migration amounts. It does not mutate the curve.
func (bc *BondingCurve) PlanMigration(cfg *GlobalConfig, mint MintState) (*MigrationPlan, error) {
	if err := bc.requireSettleable(); err != nil {
		return nil, err
	}
	if mint.FreezeAuthority != nil {
		return nil, fmt.Errorf("mint %s: %w", bc.TokenMint, ErrFreezeAuthorityEnabled)
	}
	if mint.MintAuthority != nil {
		return nil, fmt.Errorf("mint %s: %w", bc.TokenMint, ErrMintAuthorityEnabled)
	}

	earned, err := bc.EarnedLamports()
	if err != nil {
		return nil, err
	}

	fee, err := fixedpoint.PercentOf(earned, mint.Decimals, cfg.PlatformMigrationFee)
	if err != nil {
		return nil, fmt.Errorf("migration fee: %w", checked(err))
	}

	spent, err := fixedpoint.CheckedAdd(fee, FixedOverhead)
	if err != nil {
		return nil, fmt.Errorf("migration costs: %w", checked(err))
	}
	seedBase, err := fixedpoint.CheckedSub(earned, spent)
	if err != nil {
		return nil, fmt.Errorf("earned %d does not cover fee %d and overhead %d: %w",
			earned, fee, FixedOverhead, checked(err))
	}

	seedToken, err := fixedpoint.MulDivFloor(seedBase, bc.ReserveToken, bc.ReserveLamport)
	if err != nil {
		return nil, fmt.Errorf("seed token: %w", checked(err))
	}
	feeToken, err := fixedpoint.CheckedSub(bc.ReserveToken, seedToken)
	if err != nil {
		return nil, fmt.Errorf("fee token: %w", checked(err))
	}

	return &MigrationPlan{
		LamportOnCurve: earned,
		FeeLamport:     fee,
		FeeToken:       feeToken,
		SeedBase:       seedBase,
		SeedToken:      seedToken,
		SignerLamport:  SignerOverhead,
	}, nil
}

// PlanWithdraw computes what Withdraw pays out.
func (bc *BondingCurve) PlanWithdraw() (*WithdrawPlan, error) {
	if err := bc.requireSettleable(); err != nil {
		return nil, err
	}
	earned, err := bc.EarnedLamports()
	if err != nil {
		return nil, err
	}
	return &WithdrawPlan{Lamport: earned, Token: bc.ReserveToken}, nil
}

// Settle drains the curve record and moves it to its terminal stage.
func (bc *BondingCurve) Settle(cfg *GlobalConfig, stage Stage) error {
	if stage != StageWithdrawn && stage != StageMigrated {
		return fmt.Errorf("stage %s is not terminal: %w", stage, ErrValueInvalid)
	}
	if err := bc.requireSettleable(); err != nil {
		return err
	}
	bc.UpdateReserves(cfg, 0, 0)
	bc.Stage = stage
	return nil
}
