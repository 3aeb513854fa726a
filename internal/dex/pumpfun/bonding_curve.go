// ==============================================
// File: internal/dex/pumpfun/bonding_curve.go
// ==============================================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

// LamportDecimals is the decimal scale of the base currency.
const LamportDecimals uint8 = 9

// Stage is the lifecycle position of a bonding curve. It only moves forward.
type Stage uint8

const (
	StageActive Stage = iota
	StageCompleted
	StageWithdrawn
	StageMigrated
)

func (s Stage) String() string {
	switch s {
	case StageActive:
		return "active"
	case StageCompleted:
		return "completed"
	case StageWithdrawn:
		return "withdrawn"
	case StageMigrated:
		return "migrated"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// Settled reports whether the curve's reserves were already paid out.
func (s Stage) Settled() bool {
	return s == StageWithdrawn || s == StageMigrated
}

// BondingCurve is the per-mint pool state.
type BondingCurve struct {
	TokenMint solana.PublicKey
	Creator   solana.PublicKey

	// InitLamport is the reserve contributed at launch. It is never counted as earned.
	InitLamport uint64

	ReserveLamport uint64
	ReserveToken   uint64

	IsCompleted bool
	Stage       Stage
}

// NewBondingCurve returns an active curve holding the whole token supply.
func NewBondingCurve(mint, creator solana.PublicKey, reserveLamport, tokenSupply uint64) *BondingCurve {
	return &BondingCurve{
		TokenMint:      mint,
		Creator:        creator,
		InitLamport:    reserveLamport,
		ReserveLamport: reserveLamport,
		ReserveToken:   tokenSupply,
		IsCompleted:    false,
		Stage:          StageActive,
	}
}

// UpdateReserves overwrites both reserves and completes the curve once the lamport
// reserve reaches the configured limit. It returns true when the curve is completed
// after the update. Completion is never reverted.
func (bc *BondingCurve) UpdateReserves(cfg *GlobalConfig, reserveToken, reserveLamport uint64) bool {
	bc.ReserveToken = reserveToken
	bc.ReserveLamport = reserveLamport

	if reserveLamport >= cfg.CurveLimit {
		bc.IsCompleted = true
		if bc.Stage == StageActive {
			bc.Stage = StageCompleted
		}
		return true
	}
	return false
}

// EarnedLamports returns the lamports accumulated through trading: reserve minus the launch seed.
func (bc *BondingCurve) EarnedLamports() (uint64, error) {
	earned, err := fixedpoint.CheckedSub(bc.ReserveLamport, bc.InitLamport)
	if err != nil {
		return 0, fmt.Errorf("reserve %d below initial %d: %w", bc.ReserveLamport, bc.InitLamport, checked(err))
	}
	return earned, nil
}

// Progress returns the lamport reserve as a fraction of the completion limit, capped at 1.
func (bc *BondingCurve) Progress(cfg *GlobalConfig) float64 {
	if cfg.CurveLimit == 0 || bc.IsCompleted {
		return 1
	}
	p := float64(bc.ReserveLamport) / float64(cfg.CurveLimit)
	if p > 1 {
		return 1
	}
	return p
}
