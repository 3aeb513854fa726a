// internal/program/swap.go
package program

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
)

// SwapParams are the inputs of Swap.
type SwapParams struct {
	Mint      solana.PublicKey
	Amount    uint64
	Direction pumpfun.Direction
	// MinimumReceive fails the swap when the output would be smaller.
	MinimumReceive uint64
}

// SwapResult reports a committed swap.
type SwapResult struct {
	AmountOut uint64
	Fee       uint64
	Adjusted  uint64
	// Completed is true only for the swap that completed the curve.
	Completed bool

	ReserveToken   uint64
	ReserveLamport uint64
}

// Swap trades against the curve of params.Mint.
//
// Buy: the trader pays Amount lamports into the vault and the fee to the team wallet, and
// receives the tokens. Sell: the trader pays the net tokens into the vault and the fee
// tokens to the team wallet, and receives the lamports.
func (p *Program) Swap(ctx context.Context, signer solana.PublicKey, params SwapParams) (*SwapResult, error) {
	ix := newInstruction("swap_"+params.Direction.String(), signer, params.Mint)
	ix.amountIn = params.Amount
	var result *SwapResult

	err := p.execute(ctx, ix, func(ctx context.Context) error {
		if !params.Direction.Valid() {
			return fmt.Errorf("direction %d: %w", params.Direction, pumpfun.ErrValueInvalid)
		}
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		curve, err := p.loadCurve(ctx, params.Mint)
		if err != nil {
			return err
		}
		mint, err := p.ledger.Mint(ctx, params.Mint)
		if err != nil {
			return err
		}

		q, completed, err := curve.ApplySwap(cfg, mint.Decimals, params.Amount, params.Direction)
		if err != nil {
			return err
		}
		if q.AmountOut < params.MinimumReceive {
			return fmt.Errorf("amount out %d below minimum %d: %w",
				q.AmountOut, params.MinimumReceive, pumpfun.ErrReturnAmountTooSmall)
		}
		if err := p.storeCurve(ctx, curve); err != nil {
			return err
		}

		if err := p.settleSwap(ctx, cfg, signer, params.Mint, q); err != nil {
			return err
		}

		result = &SwapResult{
			AmountOut:      q.AmountOut,
			Fee:            q.FeeAmount,
			Adjusted:       q.AdjustedAmount,
			Completed:      completed,
			ReserveToken:   curve.ReserveToken,
			ReserveLamport: curve.ReserveLamport,
		}
		ix.amountOut = q.AmountOut

		ix.emit(events.SwapExecutedEvent{
			BaseEvent:      ix.base(events.SwapExecuted),
			Trader:         signer,
			Mint:           params.Mint,
			Direction:      params.Direction.String(),
			AmountIn:       q.Amount,
			Fee:            q.FeeAmount,
			AmountOut:      q.AmountOut,
			ReserveToken:   curve.ReserveToken,
			ReserveLamport: curve.ReserveLamport,
		})
		if completed {
			ix.emit(events.CurveCompletedEvent{
				BaseEvent: ix.base(events.CurveCompleted),
				Actor:     signer,
				Mint:      params.Mint,
				Curve:     p.curveAddress(params.Mint),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		lamports := params.Amount
		if params.Direction == pumpfun.DirectionSell {
			lamports = result.AmountOut
		}
		p.metrics.RecordSwap(params.Mint.String(), params.Direction.String(), lamports, result.ReserveLamport, result.Completed)
	}
	return result, nil
}

func (p *Program) settleSwap(ctx context.Context, cfg *pumpfun.GlobalConfig, signer, mint solana.PublicKey, q *pumpfun.SwapQuote) error {
	if q.Direction == pumpfun.DirectionBuy {
		if err := p.ledger.TransferBase(ctx, signer, p.vault, q.Amount); err != nil {
			return fmt.Errorf("buy input: %w", err)
		}
		if err := p.ledger.TransferToken(ctx, mint, p.vault, signer, q.AmountOut, p.vault); err != nil {
			return fmt.Errorf("buy output: %w", err)
		}
		if err := p.ledger.TransferBase(ctx, signer, cfg.TeamWallet, q.FeeAmount); err != nil {
			return fmt.Errorf("buy fee: %w", err)
		}
		return nil
	}

	if err := p.ledger.TransferToken(ctx, mint, signer, p.vault, q.AdjustedAmount, signer); err != nil {
		return fmt.Errorf("sell input: %w", err)
	}
	if err := p.ledger.TransferBase(ctx, p.vault, signer, q.AmountOut); err != nil {
		return fmt.Errorf("sell output: %w", err)
	}
	if err := p.ledger.TransferToken(ctx, mint, signer, cfg.TeamWallet, q.FeeAmount, signer); err != nil {
		return fmt.Errorf("sell fee: %w", err)
	}
	return nil
}

// SimulateSwap prices a swap against the current reserves without changing anything.
func (p *Program) SimulateSwap(ctx context.Context, mint solana.PublicKey, amount uint64, direction pumpfun.Direction) (*pumpfun.SwapQuote, error) {
	var quote *pumpfun.SwapQuote
	err := p.store.View(ctx, func(ctx context.Context) error {
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		curve, err := p.loadCurve(ctx, mint)
		if err != nil {
			return err
		}
		m, err := p.ledger.Mint(ctx, mint)
		if err != nil {
			return err
		}
		quote, err = curve.Quote(cfg, m.Decimals, amount, direction)
		return err
	})
	return quote, err
}
