package program

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/raydium"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

const (
	// Buying 55 SOL into a 30 SOL virtual reserve at 1% fee.
	completedReserveToken uint64 = 355_239_786_856_128
	completedSeedToken    uint64 = 215_317_103_750_914
	completedSeedBase     uint64 = 51_520_000_000
	completedFeeLamport   uint64 = 2_750_000_000
)

func TestMigrate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)
	f.complete(t, mint)
	vault := f.program.Vault()
	caller := newKey(t)

	res, err := f.program.Migrate(ctx, caller, mint, MigrateParams{Nonce: 254, OpenTime: 1_700_000_000, TeamWallet: f.team})
	require.NoError(t, err)

	plan := res.Plan
	assert.Equal(t, uint64(55_000_000_000), plan.LamportOnCurve)
	assert.Equal(t, completedFeeLamport, plan.FeeLamport)
	assert.Equal(t, completedSeedBase, plan.SeedBase)
	assert.Equal(t, completedSeedToken, plan.SeedToken)
	assert.Equal(t, completedReserveToken-completedSeedToken, plan.FeeToken)

	assert.Equal(t, pumpfun.SignerOverhead, f.lamports(t, caller))
	// buy fee plus migration fee
	assert.Equal(t, uint64(550_000_000)+completedFeeLamport, f.lamports(t, f.team))
	assert.Equal(t, plan.FeeToken, f.tokens(t, mint, f.team))
	assert.Equal(t, raydium.PoolCreationFee, f.lamports(t, raydium.FeeDestination))
	assert.Zero(t, f.lamports(t, vault))
	assert.Zero(t, f.tokens(t, mint, vault))

	pool := res.Pool
	assert.Equal(t, completedSeedBase, f.lamports(t, pool.ID))
	assert.Equal(t, completedSeedToken, f.tokens(t, mint, pool.ID))
	assert.Equal(t, pool.LPSupply, f.tokens(t, pool.LPMint, f.team))
	assert.Equal(t, uint8(254), pool.Nonce)

	stored, err := f.amm.PoolForMint(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, pool.ID, stored.ID)

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, pumpfun.StageMigrated, curve.Stage)
	assert.True(t, curve.IsCompleted)
	assert.Zero(t, curve.ReserveLamport)
	assert.Zero(t, curve.ReserveToken)

	migrated := f.events.ofType(events.CurveMigrated)
	require.Len(t, migrated, 1)
	assert.Equal(t, pool.ID, migrated[0].(events.CurveMigratedEvent).Pool)
}

func TestMigratePreconditions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)

	_, err := f.program.Migrate(ctx, f.trader, mint, MigrateParams{})
	assert.ErrorIs(t, err, pumpfun.ErrCurveNotCompleted)

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, testReserve, curve.ReserveLamport)

	f.complete(t, mint)
	_, err = f.program.Migrate(ctx, f.trader, mint, MigrateParams{TeamWallet: newKey(t)})
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectTeamWallet)

	_, err = f.program.Migrate(ctx, f.trader, newKey(t), MigrateParams{})
	assert.ErrorIs(t, err, ErrCurveNotFound)
}

func TestMigrateRollsBackOnAMMFailure(t *testing.T) {
	amm := &mockAMM{}
	ammErr := raydium.NewRaydiumError(raydium.ErrUnavailable, "rpc timeout", nil)
	amm.On("CreatePool", mock.Anything, mock.MatchedBy(func(p raydium.CreatePoolParams) bool {
		return p.CoinAmount == completedSeedToken && p.PcAmount == completedSeedBase
	})).Return(nil, ammErr).Once()

	f := newFixture(t, amm)
	ctx := context.Background()
	mint := f.launch(t)
	f.complete(t, mint)
	vault := f.program.Vault()
	caller := newKey(t)

	_, err := f.program.Migrate(ctx, caller, mint, MigrateParams{})
	require.Error(t, err)
	assert.True(t, raydium.IsTransient(err))
	assert.False(t, pumpfun.IsProtocolError(err))
	amm.AssertExpectations(t)

	// Legs paid before the AMM call are undone.
	assert.Zero(t, f.lamports(t, caller))
	assert.Equal(t, uint64(550_000_000), f.lamports(t, f.team))
	assert.Zero(t, f.tokens(t, mint, f.team))
	assert.Equal(t, uint64(55_000_000_000), f.lamports(t, vault))
	assert.Equal(t, completedReserveToken, f.tokens(t, mint, vault))

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, pumpfun.StageCompleted, curve.Stage)
	assert.Equal(t, testCurveLimit, curve.ReserveLamport)
	assert.Empty(t, f.events.ofType(events.CurveMigrated))

	entries, err := f.journal.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "migrate", entries[0].Name)
	assert.Equal(t, models.StatusFailed, entries[0].Status)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)

	_, err := f.program.Withdraw(ctx, f.authority, mint)
	assert.ErrorIs(t, err, pumpfun.ErrCurveNotCompleted)

	f.complete(t, mint)

	_, err = f.program.Withdraw(ctx, f.trader, mint)
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectAuthority)

	res, err := f.program.Withdraw(ctx, f.authority, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(55_000_000_000), res.Lamport)
	assert.Equal(t, completedReserveToken, res.Token)
	assert.Equal(t, res.Lamport, f.lamports(t, f.authority))
	assert.Equal(t, res.Token, f.tokens(t, mint, f.authority))
	assert.Zero(t, f.lamports(t, f.program.Vault()))

	curve, err := f.program.Curve(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, pumpfun.StageWithdrawn, curve.Stage)
	assert.Zero(t, curve.ReserveLamport)
	assert.Len(t, f.events.ofType(events.CurveWithdrawn), 1)
}

func TestWithdrawAndMigrateAreExclusive(t *testing.T) {
	tests := []struct {
		name   string
		first  func(f *fixture, ctx context.Context, mint solana.PublicKey) error
		second func(f *fixture, ctx context.Context, mint solana.PublicKey) error
	}{
		{
			name: "withdraw then migrate",
			first: func(f *fixture, ctx context.Context, mint solana.PublicKey) error {
				_, err := f.program.Withdraw(ctx, f.authority, mint)
				return err
			},
			second: func(f *fixture, ctx context.Context, mint solana.PublicKey) error {
				_, err := f.program.Migrate(ctx, f.trader, mint, MigrateParams{})
				return err
			},
		},
		{
			name: "migrate then withdraw",
			first: func(f *fixture, ctx context.Context, mint solana.PublicKey) error {
				_, err := f.program.Migrate(ctx, f.trader, mint, MigrateParams{})
				return err
			},
			second: func(f *fixture, ctx context.Context, mint solana.PublicKey) error {
				_, err := f.program.Withdraw(ctx, f.authority, mint)
				return err
			},
		},
		{
			name: "migrate twice",
			first: func(f *fixture, ctx context.Context, mint solana.PublicKey) error {
				_, err := f.program.Migrate(ctx, f.trader, mint, MigrateParams{})
				return err
			},
			second: func(f *fixture, ctx context.Context, mint solana.PublicKey) error {
				_, err := f.program.Migrate(ctx, f.trader, mint, MigrateParams{})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			mint := f.launch(t)
			f.complete(t, mint)

			require.NoError(t, tt.first(f, ctx, mint))
			err := tt.second(f, ctx, mint)
			assert.ErrorIs(t, err, pumpfun.ErrCurveAlreadySettled)
			assert.Equal(t, pumpfun.KindState, pumpfun.KindOf(err))
		})
	}
}

func TestJournalRecordsOutcome(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := f.launch(t)
	f.complete(t, mint)

	entries, err := f.journal.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "swap_buy", entries[0].Name)
	assert.Equal(t, mint.String(), entries[0].Mint)
	assert.Equal(t, uint64(55_000_000_000), entries[0].AmountIn)
	assert.Equal(t, "launch", entries[1].Name)
	assert.Equal(t, "configure", entries[2].Name)
	for _, e := range entries {
		assert.Equal(t, models.StatusSuccess, e.Status)
		assert.NotEmpty(t, e.InstructionID)
	}
}
