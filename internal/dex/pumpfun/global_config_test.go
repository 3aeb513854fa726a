package pumpfun

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureBootstrap(t *testing.T) {
	deployer := newKey(t)
	next := *testConfig(t)
	next.Authority = newKey(t)
	next.PendingAuthority = newKey(t)

	cfg, err := Configure(nil, deployer, next)
	require.NoError(t, err)
	assert.Equal(t, deployer, cfg.Authority, "first signer becomes authority")
	assert.True(t, cfg.PendingAuthority.IsZero())
}

func TestConfigureUpdate(t *testing.T) {
	current := testConfig(t)
	current.PendingAuthority = newKey(t)

	next := *testConfig(t)
	next.PlatformBuyFee = decimal.RequireFromString("1.5")

	t.Run("non authority rejected", func(t *testing.T) {
		_, err := Configure(current, newKey(t), next)
		assert.ErrorIs(t, err, ErrIncorrectAuthority)
	})

	t.Run("non authority with invalid parameters", func(t *testing.T) {
		invalid := next
		invalid.PlatformBuyFee = decimal.NewFromInt(150)
		_, err := Configure(current, newKey(t), invalid)
		assert.ErrorIs(t, err, ErrIncorrectAuthority)
	})

	t.Run("authority fields preserved", func(t *testing.T) {
		cfg, err := Configure(current, current.Authority, next)
		require.NoError(t, err)
		assert.Equal(t, current.Authority, cfg.Authority)
		assert.Equal(t, current.PendingAuthority, cfg.PendingAuthority)
		assert.True(t, decimal.RequireFromString("1.5").Equal(cfg.PlatformBuyFee))
	})
}

func TestGlobalConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GlobalConfig)
		wantErr error
	}{
		{"valid", func(c *GlobalConfig) {}, nil},
		{"zero fees", func(c *GlobalConfig) {
			c.PlatformBuyFee, c.PlatformSellFee, c.PlatformMigrationFee = decimal.Zero, decimal.Zero, decimal.Zero
		}, nil},
		{"negative buy fee", func(c *GlobalConfig) { c.PlatformBuyFee = decimal.NewFromInt(-1) }, ErrValueInvalid},
		{"sell fee of 100", func(c *GlobalConfig) { c.PlatformSellFee = decimal.NewFromInt(100) }, ErrValueInvalid},
		{"migration fee above 100", func(c *GlobalConfig) { c.PlatformMigrationFee = decimal.NewFromInt(250) }, ErrValueInvalid},
		{"zero curve limit", func(c *GlobalConfig) { c.CurveLimit = 0 }, ErrValueInvalid},
		{"missing team wallet", func(c *GlobalConfig) { c.TeamWallet = solana.PublicKey{} }, ErrIncorrectTeamWallet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, KindOf(tt.wantErr), KindOf(err))
		})
	}
}

func TestTwoPhaseAuthorityHandover(t *testing.T) {
	cfg := testConfig(t)
	oldAdmin := cfg.Authority
	newAdmin := newKey(t)
	stranger := newKey(t)

	// Nominate by a non-authority leaves pending untouched.
	err := cfg.Nominate(stranger, newAdmin)
	assert.ErrorIs(t, err, ErrIncorrectAuthority)
	assert.True(t, cfg.PendingAuthority.IsZero())

	// Accept without a nomination fails for everyone.
	assert.ErrorIs(t, cfg.Accept(newAdmin), ErrIncorrectAuthority)

	require.NoError(t, cfg.Nominate(oldAdmin, newAdmin))
	assert.Equal(t, newAdmin, cfg.PendingAuthority)

	// Accept by someone other than the nominee leaves authority untouched.
	err = cfg.Accept(stranger)
	assert.ErrorIs(t, err, ErrIncorrectAuthority)
	assert.Equal(t, oldAdmin, cfg.Authority)

	require.NoError(t, cfg.Accept(newAdmin))
	assert.Equal(t, newAdmin, cfg.Authority)
	assert.True(t, cfg.PendingAuthority.IsZero())

	// The previous authority can no longer configure.
	_, err = Configure(cfg, oldAdmin, *testConfig(t))
	assert.ErrorIs(t, err, ErrIncorrectAuthority)
	_, err = Configure(cfg, newAdmin, *testConfig(t))
	assert.NoError(t, err)
}

func TestFeeFor(t *testing.T) {
	cfg := testConfig(t)
	assert.True(t, cfg.FeeFor(DirectionBuy).Equal(decimal.NewFromInt(1)))
	assert.True(t, cfg.FeeFor(DirectionSell).Equal(decimal.NewFromInt(2)))
}
