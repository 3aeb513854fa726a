package program

import (
	"context"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/oraichain/pump-fun-smart-contract/internal/blockchain/ledger"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/raydium"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
)

const (
	testDecimals      uint8  = 6
	testSupply        uint64 = 1_000_000_000_000_000
	testReserve       uint64 = 30_000_000_000
	testCurveLimit    uint64 = 85_000_000_000
	testTraderBalance uint64 = 100_000_000_000
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

type mockAMM struct {
	mock.Mock
}

func (m *mockAMM) CreatePool(ctx context.Context, params raydium.CreatePoolParams) (*raydium.Pool, error) {
	args := m.Called(ctx, params)
	pool, _ := args.Get(0).(*raydium.Pool)
	return pool, args.Error(1)
}

type fixture struct {
	program *Program
	ledger  *ledger.Ledger
	store   *storage.MemoryStore
	amm     *raydium.AMM
	journal *storage.MemoryJournal
	events  *recorder

	authority solana.PublicKey
	team      solana.PublicKey
	trader    solana.PublicKey
}

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	k, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return k.PublicKey()
}

// newFixture builds an unconfigured program. amm replaces the simulated AMM when non-nil.
func newFixture(t *testing.T, amm PoolCreator, opts ...Option) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := storage.NewMemoryStore(logger)
	l := ledger.New(store, logger)

	f := &fixture{
		ledger:    l,
		store:     store,
		amm:       raydium.NewAMM(store, l, logger),
		journal:   storage.NewMemoryJournal(),
		events:    &recorder{},
		authority: newKey(t),
		team:      newKey(t),
		trader:    newKey(t),
	}
	if amm == nil {
		amm = f.amm
	}
	opts = append([]Option{WithJournal(f.journal), WithPublisher(f.events)}, opts...)

	var err error
	f.program, err = New(store, l, amm, logger, opts...)
	require.NoError(t, err)
	require.NoError(t, l.Airdrop(context.Background(), f.trader, testTraderBalance))
	return f
}

func (f *fixture) config() pumpfun.GlobalConfig {
	return pumpfun.GlobalConfig{
		TeamWallet:           f.team,
		PlatformBuyFee:       decimal.NewFromInt(1),
		PlatformSellFee:      decimal.NewFromInt(2),
		PlatformMigrationFee: decimal.NewFromInt(5),
		CurveLimit:           testCurveLimit,
		LamportAmountConfig:  pumpfun.RangeConfig[uint64](nil, pumpfun.Bound[uint64](100_000_000_000)),
		TokenSupplyConfig:    pumpfun.RangeConfig[uint64](pumpfun.Bound[uint64](1_000), pumpfun.Bound[uint64](10_000_000_000)),
		TokenDecimalsConfig:  pumpfun.EnumConfig[uint8](6, 9),
	}
}

func (f *fixture) configure(t *testing.T) {
	t.Helper()
	_, err := f.program.Configure(context.Background(), f.authority, f.config())
	require.NoError(t, err)
}

func launchParams(mint solana.PublicKey) pumpfun.LaunchParams {
	return pumpfun.LaunchParams{
		Mint:          mint,
		Decimals:      testDecimals,
		TokenSupply:   testSupply,
		ReserveAmount: testReserve,
		Name:          "Test Token",
		Symbol:        "TEST",
		URI:           "https://example.com/test.json",
	}
}

// launch configures the program and launches one curve.
func (f *fixture) launch(t *testing.T) solana.PublicKey {
	t.Helper()
	f.configure(t)
	mint := newKey(t)
	_, err := f.program.Launch(context.Background(), f.authority, launchParams(mint))
	require.NoError(t, err)
	return mint
}

// complete buys exactly up to the curve limit.
func (f *fixture) complete(t *testing.T, mint solana.PublicKey) *SwapResult {
	t.Helper()
	res, err := f.program.Swap(context.Background(), f.trader, SwapParams{
		Mint:      mint,
		Amount:    testCurveLimit - testReserve,
		Direction: pumpfun.DirectionBuy,
	})
	require.NoError(t, err)
	require.True(t, res.Completed)
	return res
}

func (f *fixture) lamports(t *testing.T, owner solana.PublicKey) uint64 {
	t.Helper()
	v, err := f.ledger.Lamports(context.Background(), owner)
	require.NoError(t, err)
	return v
}

func (f *fixture) tokens(t *testing.T, mint, owner solana.PublicKey) uint64 {
	t.Helper()
	v, err := f.ledger.TokenBalance(context.Background(), mint, owner)
	require.NoError(t, err)
	return v
}
