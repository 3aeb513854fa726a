// =============================
// File: internal/dex/pumpfun/swap.go
// =============================
package pumpfun

import (
	"fmt"
	"strings"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

// Direction of a swap. Values match the wire encoding: 0 buy, 1 sell.
type Direction uint8

const (
	// DirectionBuy: the user pays lamports and receives tokens.
	DirectionBuy Direction = 0
	// DirectionSell: the user pays tokens and receives lamports.
	DirectionSell Direction = 1
)

func (d Direction) String() string {
	if d == DirectionSell {
		return "sell"
	}
	return "buy"
}

// Valid reports whether d is one of the two wire values.
func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// ParseDirection accepts "buy"/"sell" or the wire values "0"/"1".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "0":
		return DirectionBuy, nil
	case "sell", "1":
		return DirectionSell, nil
	}
	return 0, fmt.Errorf("unknown swap direction %q: %w", s, ErrValueInvalid)
}

// SwapQuote is the outcome of pricing a swap against the current reserves.
type SwapQuote struct {
	Direction Direction

	// Amount is the gross input supplied by the user.
	Amount uint64
	// AdjustedAmount is the input net of the platform fee; it is what gets priced.
	AdjustedAmount uint64
	// FeeAmount goes to the team wallet, in the input asset.
	FeeAmount uint64
	// AmountOut is paid to the user in the output asset.
	AmountOut uint64

	NewReserveToken   uint64
	NewReserveLamport uint64
}

// Quote prices a swap without mutating the curve.
//
// The fee is taken off the input before pricing:
//
//	adjusted = floor(amount * (100 - fee) / 100)
//	out      = floor(reserve_out * adjusted / (reserve_in + adjusted))
//
// The reserve of the input asset then grows by the gross amount while the output
// reserve shrinks by out. decimals is the token's decimal scale.
func (bc *BondingCurve) Quote(cfg *GlobalConfig, decimals uint8, amount uint64, direction Direction) (*SwapQuote, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("direction %d: %w", direction, ErrValueInvalid)
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	adjusted, err := fixedpoint.NetOfPercent(amount, decimals, cfg.FeeFor(direction))
	if err != nil {
		return nil, fmt.Errorf("fee deduction: %w", checked(err))
	}

	q := &SwapQuote{
		Direction:      direction,
		Amount:         amount,
		AdjustedAmount: adjusted,
		FeeAmount:      amount - adjusted,
	}

	reserveIn, reserveOut := bc.ReserveLamport, bc.ReserveToken
	if direction == DirectionSell {
		reserveIn, reserveOut = bc.ReserveToken, bc.ReserveLamport
	}

	denominator, err := fixedpoint.CheckedAdd(reserveIn, adjusted)
	if err != nil {
		return nil, fmt.Errorf("denominator: %w", checked(err))
	}

	// A fully-consumed input prices to nothing.
	if adjusted > 0 {
		q.AmountOut, err = fixedpoint.MulDivFloor(reserveOut, adjusted, denominator)
		if err != nil {
			return nil, fmt.Errorf("amount out: %w", checked(err))
		}
	}

	if direction == DirectionSell {
		q.NewReserveToken, err = fixedpoint.CheckedAdd(bc.ReserveToken, amount)
		if err != nil {
			return nil, fmt.Errorf("token reserve: %w", checked(err))
		}
		q.NewReserveLamport, err = fixedpoint.CheckedSub(bc.ReserveLamport, q.AmountOut)
		if err != nil {
			return nil, fmt.Errorf("lamport reserve: %w", checked(err))
		}
	} else {
		q.NewReserveToken, err = fixedpoint.CheckedSub(bc.ReserveToken, q.AmountOut)
		if err != nil {
			return nil, fmt.Errorf("token reserve: %w", checked(err))
		}
		q.NewReserveLamport, err = fixedpoint.CheckedAdd(bc.ReserveLamport, amount)
		if err != nil {
			return nil, fmt.Errorf("lamport reserve: %w", checked(err))
		}
	}

	return q, nil
}

// ApplySwap prices the swap and commits the new reserves. It returns the quote and whether
// this swap moved the curve from active to completed.
func (bc *BondingCurve) ApplySwap(cfg *GlobalConfig, decimals uint8, amount uint64, direction Direction) (*SwapQuote, bool, error) {
	if bc.Stage != StageActive {
		return nil, false, fmt.Errorf("curve %s is %s: %w", bc.TokenMint, bc.Stage, ErrCurveCompleted)
	}

	q, err := bc.Quote(cfg, decimals, amount, direction)
	if err != nil {
		return nil, false, err
	}

	completed := bc.UpdateReserves(cfg, q.NewReserveToken, q.NewReserveLamport)
	return q, completed, nil
}
