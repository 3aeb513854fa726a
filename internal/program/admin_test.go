package program

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

func TestConfigureFirstCallerBecomesAuthority(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.program.GlobalConfig(ctx)
	assert.ErrorIs(t, err, pumpfun.ErrNotConfigured)

	cfg := f.config()
	cfg.Authority = newKey(t) // ignored
	stored, err := f.program.Configure(ctx, f.authority, cfg)
	require.NoError(t, err)
	assert.Equal(t, f.authority, stored.Authority)

	got, err := f.program.GlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.authority, got.Authority)
	assert.True(t, got.PlatformBuyFee.Equal(decimal.NewFromInt(1)))

	updates := f.events.ofType(events.ConfigUpdated)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].(events.ConfigUpdatedEvent).Created)
}

func TestConfigureRequiresAuthority(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.configure(t)

	invalid := f.config()
	invalid.PlatformBuyFee = decimal.NewFromInt(150)
	_, err := f.program.Configure(ctx, newKey(t), invalid)
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectAuthority, "outsider sees the authority error first")
	assert.NotErrorIs(t, err, pumpfun.ErrValueInvalid)

	cfg := f.config()
	cfg.CurveLimit = 1
	_, err = f.program.Configure(ctx, newKey(t), cfg)
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectAuthority)

	stored, err := f.program.Configure(ctx, f.authority, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.CurveLimit)
	assert.Equal(t, f.authority, stored.Authority)

	cfg.PlatformSellFee = decimal.NewFromInt(100)
	_, err = f.program.Configure(ctx, f.authority, cfg)
	assert.ErrorIs(t, err, pumpfun.ErrValueInvalid)

	entries, err := f.journal.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, models.StatusFailed, entries[0].Status)
	assert.Equal(t, pumpfun.ErrValueInvalid.Code, entries[0].ErrorCode)
	assert.Equal(t, models.StatusSuccess, entries[1].Status)
	assert.Equal(t, pumpfun.ErrIncorrectAuthority.Code, entries[2].ErrorCode)
	assert.Equal(t, pumpfun.ErrIncorrectAuthority.Code, entries[3].ErrorCode)
}

func TestConfigureWithDeployer(t *testing.T) {
	deployer := solana.NewWallet().PublicKey()
	f := newFixture(t, nil, WithDeployer(deployer))
	ctx := context.Background()

	_, err := f.program.Configure(ctx, f.authority, f.config())
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectAuthority)

	invalid := f.config()
	invalid.PlatformSellFee = decimal.NewFromInt(100)
	_, err = f.program.Configure(ctx, f.authority, invalid)
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectAuthority)

	stored, err := f.program.Configure(ctx, deployer, f.config())
	require.NoError(t, err)
	assert.Equal(t, deployer, stored.Authority)
}

func TestAuthorityHandover(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.configure(t)
	next := newKey(t)

	assert.ErrorIs(t, f.program.NominateAuthority(ctx, next, next), pumpfun.ErrIncorrectAuthority)
	require.NoError(t, f.program.NominateAuthority(ctx, f.authority, next))

	cfg, err := f.program.GlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.authority, cfg.Authority)
	assert.Equal(t, next, cfg.PendingAuthority)

	assert.ErrorIs(t, f.program.AcceptAuthority(ctx, f.authority), pumpfun.ErrIncorrectAuthority)
	require.NoError(t, f.program.AcceptAuthority(ctx, next))

	cfg, err = f.program.GlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, cfg.Authority)
	assert.True(t, cfg.PendingAuthority.IsZero())

	// The old authority lost its rights.
	_, err = f.program.Configure(ctx, f.authority, f.config())
	assert.ErrorIs(t, err, pumpfun.ErrIncorrectAuthority)

	accepted := f.events.ofType(events.AuthorityAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, f.authority, accepted[0].(events.AuthorityAcceptedEvent).Previous)
}

func TestOperationsRequireConfig(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mint := newKey(t)

	_, err := f.program.Launch(ctx, f.authority, launchParams(mint))
	assert.ErrorIs(t, err, pumpfun.ErrNotConfigured)
	assert.ErrorIs(t, f.program.NominateAuthority(ctx, f.authority, mint), pumpfun.ErrNotConfigured)
	_, err = f.program.Withdraw(ctx, f.authority, mint)
	assert.ErrorIs(t, err, pumpfun.ErrNotConfigured)
}
