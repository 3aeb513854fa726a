package program

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraichain/pump-fun-smart-contract/internal/blockchain/ledger"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
)

func TestLaunch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, testReserve, curve.InitLamport)
	assert.Equal(t, testReserve, curve.ReserveLamport)
	assert.Equal(t, testSupply, curve.ReserveToken)
	assert.Equal(t, pumpfun.StageActive, curve.Stage)
	assert.Equal(t, f.authority, curve.Creator)

	m, err := f.ledger.Mint(ctx, mint)
	require.NoError(t, err)
	assert.Nil(t, m.MintAuthority)
	assert.Nil(t, m.FreezeAuthority)
	assert.Equal(t, testSupply, m.Supply)
	assert.Equal(t, testSupply, f.tokens(t, mint, f.program.Vault()))

	md, err := f.ledger.Metadata(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, "TEST", md.Symbol)

	// The supply is fixed for good.
	err = f.ledger.MintTo(ctx, mint, f.trader, 1, f.program.Vault())
	assert.ErrorIs(t, err, ledger.ErrAuthorityRevoked)

	_, err = f.program.Launch(ctx, f.authority, launchParams(mint))
	assert.ErrorIs(t, err, pumpfun.ErrCurveAlreadyLaunched)

	curves, err := f.program.Curves(ctx)
	require.NoError(t, err)
	assert.Len(t, curves, 1)
	assert.Len(t, f.events.ofType(events.CurveLaunched), 1)
}

func TestLaunchValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.configure(t)

	tests := []struct {
		name    string
		mutate  func(p *pumpfun.LaunchParams)
		wantErr error
	}{
		{"fractional supply", func(p *pumpfun.LaunchParams) { p.TokenSupply++ }, pumpfun.ErrValueInvalid},
		{"reserve too large", func(p *pumpfun.LaunchParams) { p.ReserveAmount = 100_000_000_001 }, pumpfun.ErrValueTooLarge},
		{"supply too small", func(p *pumpfun.LaunchParams) { p.TokenSupply = 999_000_000 }, pumpfun.ErrValueTooSmall},
		{"decimals not allowed", func(p *pumpfun.LaunchParams) { p.Decimals = 8; p.TokenSupply = 100_000_000_000 }, pumpfun.ErrValueInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := launchParams(newKey(t))
			tt.mutate(&params)
			_, err := f.program.Launch(ctx, f.authority, params)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = f.ledger.Mint(ctx, params.Mint)
			assert.ErrorIs(t, err, ledger.ErrMintNotFound)
		})
	}
}

func TestSwapBuyAndSell(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)
	vault := f.program.Vault()

	quote, err := f.program.SimulateSwap(ctx, mint, 10_000_000_000, pumpfun.DirectionBuy)
	require.NoError(t, err)

	buy, err := f.program.Swap(ctx, f.trader, SwapParams{
		Mint:           mint,
		Amount:         10_000_000_000,
		Direction:      pumpfun.DirectionBuy,
		MinimumReceive: quote.AmountOut,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9_900_000_000), buy.Adjusted)
	assert.Equal(t, uint64(100_000_000), buy.Fee)
	assert.Equal(t, uint64(248_120_300_751_879), buy.AmountOut)
	assert.Equal(t, quote.AmountOut, buy.AmountOut)
	assert.Equal(t, uint64(40_000_000_000), buy.ReserveLamport)
	assert.Equal(t, uint64(751_879_699_248_121), buy.ReserveToken)
	assert.False(t, buy.Completed)

	assert.Equal(t, testTraderBalance-10_000_000_000-100_000_000, f.lamports(t, f.trader))
	assert.Equal(t, uint64(10_000_000_000), f.lamports(t, vault))
	assert.Equal(t, uint64(100_000_000), f.lamports(t, f.team))
	assert.Equal(t, buy.AmountOut, f.tokens(t, mint, f.trader))

	sell, err := f.program.Swap(ctx, f.trader, SwapParams{
		Mint:      mint,
		Amount:    100_000_000_000_000,
		Direction: pumpfun.DirectionSell,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(98_000_000_000_000), sell.Adjusted)
	assert.Equal(t, uint64(2_000_000_000_000), sell.Fee)
	assert.Equal(t, uint64(4_612_417_502), sell.AmountOut)
	assert.Equal(t, uint64(851_879_699_248_121), sell.ReserveToken)
	assert.Equal(t, uint64(35_387_582_498), sell.ReserveLamport)

	assert.Equal(t, uint64(2_000_000_000_000), f.tokens(t, mint, f.team))
	assert.Equal(t, buy.AmountOut-100_000_000_000_000, f.tokens(t, mint, f.trader))
	assert.Equal(t, uint64(10_000_000_000-4_612_417_502), f.lamports(t, vault))

	// Base custody tracks the earned reserve exactly.
	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	earned, err := curve.EarnedLamports()
	require.NoError(t, err)
	assert.Equal(t, earned, f.lamports(t, vault))

	assert.Len(t, f.events.ofType(events.SwapExecuted), 2)
	assert.Empty(t, f.events.ofType(events.CurveCompleted))
}

func TestSwapRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)

	_, err := f.program.Swap(ctx, f.trader, SwapParams{Mint: mint, Direction: pumpfun.DirectionBuy})
	assert.ErrorIs(t, err, pumpfun.ErrInvalidAmount)

	_, err = f.program.Swap(ctx, f.trader, SwapParams{Mint: mint, Amount: 1, Direction: 7})
	assert.ErrorIs(t, err, pumpfun.ErrValueInvalid)

	_, err = f.program.SimulateSwap(ctx, mint, 1_000_000_000, 7)
	assert.ErrorIs(t, err, pumpfun.ErrValueInvalid)

	_, err = f.program.Swap(ctx, f.trader, SwapParams{Mint: newKey(t), Amount: 1})
	assert.ErrorIs(t, err, ErrCurveNotFound)
	assert.ErrorIs(t, err, pumpfun.ErrValueInvalid)

	_, err = f.program.Swap(ctx, f.trader, SwapParams{
		Mint:           mint,
		Amount:         1_000_000_000,
		Direction:      pumpfun.DirectionBuy,
		MinimumReceive: 1 << 62,
	})
	assert.ErrorIs(t, err, pumpfun.ErrReturnAmountTooSmall)

	// Selling tokens the trader does not hold fails in the ledger and rolls back.
	_, err = f.program.Swap(ctx, f.trader, SwapParams{Mint: mint, Amount: 1_000, Direction: pumpfun.DirectionSell})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, testReserve, curve.ReserveLamport)
	assert.Equal(t, testSupply, curve.ReserveToken)
	assert.Equal(t, testTraderBalance, f.lamports(t, f.trader))
}

func TestSwapCompletesCurveOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)

	f.complete(t, mint)

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.True(t, curve.IsCompleted)
	assert.Equal(t, pumpfun.StageCompleted, curve.Stage)
	assert.Equal(t, uint64(644_760_213_143_872), f.tokens(t, mint, f.trader))

	_, err = f.program.Swap(ctx, f.trader, SwapParams{Mint: mint, Amount: 1_000, Direction: pumpfun.DirectionSell})
	assert.ErrorIs(t, err, pumpfun.ErrCurveCompleted)
	_, err = f.program.Swap(ctx, f.trader, SwapParams{Mint: mint, Amount: 1_000, Direction: pumpfun.DirectionBuy})
	assert.ErrorIs(t, err, pumpfun.ErrCurveCompleted)

	completed := f.events.ofType(events.CurveCompleted)
	require.Len(t, completed, 1)
	e := completed[0].(events.CurveCompletedEvent)
	assert.Equal(t, f.trader, e.Actor)
	assert.Equal(t, mint, e.Mint)
	addr, err := pumpfun.BondingCurveAddress(f.program.ProgramID(), mint)
	require.NoError(t, err)
	assert.Equal(t, addr, e.Curve)
}

func TestSwapEventsOnlyAfterCommit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)

	_, err := f.program.Swap(ctx, f.trader, SwapParams{
		Mint:      mint,
		Amount:    testTraderBalance,
		Direction: pumpfun.DirectionBuy,
	})
	// The fee leg exceeds the trader's balance.
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Empty(t, f.events.ofType(events.SwapExecuted))
	assert.Empty(t, f.events.ofType(events.CurveCompleted))

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, pumpfun.StageActive, curve.Stage)
}
