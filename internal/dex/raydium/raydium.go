// internal/dex/raydium/raydium.go

// Package raydium simulates the Raydium V4 initialize2 call used to list a graduated token:
// it takes custody of the seed liquidity, charges the pool creation fee and mints LP tokens.
package raydium

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/oraichain/pump-fun-smart-contract/internal/blockchain/ledger"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
)

// CreatePoolParams are the inputs of initialize2.
type CreatePoolParams struct {
	Payer    solana.PublicKey
	CoinMint solana.PublicKey
	// PcMint defaults to WrappedSolMint; pc liquidity is paid in lamports.
	PcMint     solana.PublicKey
	Market     solana.PublicKey
	// Nonce defaults to the bump of the pool authority.
	Nonce      uint8
	OpenTime   uint64
	CoinAmount uint64
	PcAmount   uint64
	// LPOwner receives the minted LP tokens. Defaults to Payer.
	LPOwner solana.PublicKey
}

// Option configures an AMM.
type Option func(*AMM)

// WithProgramID overrides the AMM program all pool addresses are derived from.
func WithProgramID(id solana.PublicKey) Option {
	return func(a *AMM) { a.programID = id }
}

// WithFailure installs a hook called after the seed liquidity has moved and before the pool
// is stored. A non-nil return aborts the call.
func WithFailure(hook func(CreatePoolParams) error) Option {
	return func(a *AMM) { a.failure = hook }
}

// AMM is a constant-product pool program backed by the ledger.
type AMM struct {
	store     storage.Store
	ledger    *ledger.Ledger
	programID solana.PublicKey
	failure   func(CreatePoolParams) error
	logger    *zap.Logger
}

func NewAMM(store storage.Store, l *ledger.Ledger, logger *zap.Logger, opts ...Option) *AMM {
	a := &AMM{
		store:     store,
		ledger:    l,
		programID: RaydiumV4ProgramID,
		logger:    logger.Named("raydium"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreatePool creates a pool for CoinMint/PcMint seeded with the given amounts. All transfers
// run in the caller's transaction when ctx carries one.
func (a *AMM) CreatePool(ctx context.Context, p CreatePoolParams) (*Pool, error) {
	if p.CoinAmount == 0 || p.PcAmount == 0 {
		return nil, NewRaydiumError(ErrInvalidAmount, "seed amounts must be positive", map[string]interface{}{
			"coin_amount": p.CoinAmount,
			"pc_amount":   p.PcAmount,
		})
	}
	if p.PcMint.IsZero() {
		p.PcMint = WrappedSolMint
	}
	if !p.PcMint.Equals(WrappedSolMint) {
		return nil, NewRaydiumError(ErrInvalidMint, "only wrapped SOL is supported as pc mint", map[string]interface{}{
			"pc_mint": p.PcMint.String(),
		})
	}
	if p.LPOwner.IsZero() {
		p.LPOwner = p.Payer
	}
	if p.Market.IsZero() {
		market, err := MarketAddress(p.CoinMint, p.PcMint)
		if err != nil {
			return nil, err
		}
		p.Market = market
	}
	keys, err := DerivePoolKeys(a.programID, p.Market)
	if err != nil {
		return nil, err
	}
	if p.Nonce == 0 {
		p.Nonce = keys.Nonce
	}

	pool := &Pool{
		ID:          keys.ID,
		Authority:   keys.Authority,
		Market:      p.Market,
		CoinMint:    p.CoinMint,
		PcMint:      p.PcMint,
		LPMint:      keys.LPMint,
		CoinReserve: p.CoinAmount,
		PcReserve:   p.PcAmount,
		Nonce:       p.Nonce,
		OpenTime:    p.OpenTime,
		Status:      PoolStatusActive,
	}

	err = a.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.Get(pool.ID); err == nil {
			return NewRaydiumError(ErrPoolExists, "pool already exists", map[string]interface{}{
				"pool": pool.ID.String(),
			})
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		coin, err := a.ledger.Mint(ctx, p.CoinMint)
		if err != nil {
			return NewRaydiumError(ErrInvalidMint, "coin mint not found", map[string]interface{}{
				"coin_mint": p.CoinMint.String(),
			})
		}

		if err := a.ledger.TransferBase(ctx, p.Payer, FeeDestination, PoolCreationFee); err != nil {
			return fmt.Errorf("failed to pay pool creation fee: %w", err)
		}
		if err := a.ledger.TransferBase(ctx, p.Payer, pool.ID, p.PcAmount); err != nil {
			return fmt.Errorf("failed to deposit pc liquidity: %w", err)
		}
		if err := a.ledger.TransferToken(ctx, p.CoinMint, p.Payer, pool.ID, p.CoinAmount, p.Payer); err != nil {
			return fmt.Errorf("failed to deposit coin liquidity: %w", err)
		}

		if a.failure != nil {
			if err := a.failure(p); err != nil {
				return err
			}
		}

		lp := lpSupply(p.CoinAmount, p.PcAmount)
		pool.LPSupply = lp
		if err := a.ledger.CreateMint(ctx, pool.LPMint, coin.Decimals, &pool.Authority, nil); err != nil {
			return fmt.Errorf("failed to create lp mint: %w", err)
		}
		if err := a.ledger.MintTo(ctx, pool.LPMint, p.LPOwner, lp, pool.Authority); err != nil {
			return fmt.Errorf("failed to mint lp tokens: %w", err)
		}

		data, err := encodePool(pool)
		if err != nil {
			return err
		}
		return tx.Put(pool.ID, data)
	})
	if err != nil {
		a.logger.Warn("Pool creation failed",
			zap.String("coin_mint", p.CoinMint.String()),
			zap.Error(err))
		return nil, err
	}

	a.logger.Info("Pool created",
		zap.String("pool", pool.ID.String()),
		zap.String("coin_mint", pool.CoinMint.String()),
		zap.Uint64("coin_reserve", pool.CoinReserve),
		zap.Uint64("pc_reserve", pool.PcReserve),
		zap.Uint64("lp_supply", pool.LPSupply))
	return pool, nil
}

// Pool returns the pool stored under id.
func (a *AMM) Pool(ctx context.Context, id solana.PublicKey) (*Pool, error) {
	var pool *Pool
	err := a.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		data, err := tx.Get(id)
		if errors.Is(err, storage.ErrNotFound) {
			return NewRaydiumError(ErrPoolNotFound, "pool not found", map[string]interface{}{
				"pool": id.String(),
			})
		}
		if err != nil {
			return err
		}
		pool, err = decodePool(data)
		return err
	})
	return pool, err
}

// PoolForMint returns the pool whose coin is mint.
func (a *AMM) PoolForMint(ctx context.Context, mint solana.PublicKey) (*Pool, error) {
	pools, err := a.Pools(ctx)
	if err != nil {
		return nil, err
	}
	for _, pool := range pools {
		if pool.CoinMint.Equals(mint) {
			return pool, nil
		}
	}
	return nil, NewRaydiumError(ErrPoolNotFound, "no pool for mint", map[string]interface{}{
		"mint": mint.String(),
	})
}

// Pools lists every pool in key order.
func (a *AMM) Pools(ctx context.Context) ([]*Pool, error) {
	var pools []*Pool
	err := a.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		return tx.Scan(poolDiscriminator[:], func(key solana.PublicKey, data []byte) error {
			pool, err := decodePool(data)
			if err != nil {
				return fmt.Errorf("pool %s: %w", key, err)
			}
			pools = append(pools, pool)
			return nil
		})
	})
	return pools, err
}

// lpSupply is floor(sqrt(coin*pc)).
func lpSupply(coin, pc uint64) uint64 {
	product := new(big.Int).Mul(new(big.Int).SetUint64(coin), new(big.Int).SetUint64(pc))
	return product.Sqrt(product).Uint64()
}
