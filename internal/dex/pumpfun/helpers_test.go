package pumpfun

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

// testConfig returns a configured program with a 1% buy fee, 2% sell fee, 5% migration
// fee and an 85 SOL completion limit.
func testConfig(t *testing.T) *GlobalConfig {
	t.Helper()
	return &GlobalConfig{
		Authority:            newKey(t),
		TeamWallet:           newKey(t),
		PlatformBuyFee:       decimal.NewFromInt(1),
		PlatformSellFee:      decimal.NewFromInt(2),
		PlatformMigrationFee: decimal.NewFromInt(5),
		CurveLimit:           85_000_000_000,
		LamportAmountConfig:  RangeConfig[uint64](nil, Bound[uint64](100_000_000_000)),
		TokenSupplyConfig:    RangeConfig[uint64](Bound[uint64](1_000), Bound[uint64](10_000_000_000)),
		TokenDecimalsConfig:  EnumConfig[uint8](6, 9),
	}
}
