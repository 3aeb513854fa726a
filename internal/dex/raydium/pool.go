// internal/dex/raydium/pool.go
package raydium

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

var poolDiscriminator = func() [8]byte {
	sum := sha256.Sum256([]byte("account:AmmInfo"))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}()

// Pool is the state of a constant-product pool created by initialize2.
type Pool struct {
	ID        solana.PublicKey
	Authority solana.PublicKey
	Market    solana.PublicKey

	CoinMint solana.PublicKey
	PcMint   solana.PublicKey
	LPMint   solana.PublicKey

	CoinReserve uint64
	PcReserve   uint64
	LPSupply    uint64

	Nonce    uint8
	OpenTime uint64
	Status   uint8
}

// PoolKeys are the derived addresses of a pool on one market.
type PoolKeys struct {
	ID        solana.PublicKey
	Authority solana.PublicKey
	LPMint    solana.PublicKey
	Nonce     uint8
}

// DerivePoolKeys returns the pool addresses for market under programID.
func DerivePoolKeys(programID, market solana.PublicKey) (*PoolKeys, error) {
	id, _, err := solana.FindProgramAddress(
		[][]byte{programID.Bytes(), market.Bytes(), []byte(AmmAssociatedSeed)}, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive amm id: %w", err)
	}
	authority, nonce, err := solana.FindProgramAddress([][]byte{[]byte(AmmAuthoritySeed)}, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive amm authority: %w", err)
	}
	lpMint, _, err := solana.FindProgramAddress(
		[][]byte{programID.Bytes(), market.Bytes(), []byte(LpMintSeed)}, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive lp mint: %w", err)
	}
	return &PoolKeys{ID: id, Authority: authority, LPMint: lpMint, Nonce: nonce}, nil
}

// MarketAddress derives a market id for a coin/pc pair when none is supplied.
func MarketAddress(coinMint, pcMint solana.PublicKey) (solana.PublicKey, error) {
	market, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(MarketSeed), coinMint.Bytes(), pcMint.Bytes()}, OpenBookProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive market: %w", err)
	}
	return market, nil
}

// ValidatePoolAccounts checks that every address of the pool is set.
func ValidatePoolAccounts(pool *Pool) error {
	accounts := map[string]solana.PublicKey{
		"id":        pool.ID,
		"authority": pool.Authority,
		"coin_mint": pool.CoinMint,
		"pc_mint":   pool.PcMint,
		"lp_mint":   pool.LPMint,
	}
	for name, acc := range accounts {
		if acc.IsZero() {
			return fmt.Errorf("invalid pool account: %s is zero", name)
		}
	}
	return nil
}

// SwapAmounts is a quote against the pool reserves.
type SwapAmounts struct {
	AmountIn     uint64
	AmountOut    uint64
	MinAmountOut uint64
}

// CalculateSwapAmounts quotes selling amountIn coin for pc, with slippage in basis points.
func CalculateSwapAmounts(pool *Pool, amountIn uint64, slippageBps uint16) (*SwapAmounts, error) {
	denominator, err := fixedpoint.CheckedAdd(pool.CoinReserve, amountIn)
	if err != nil {
		return nil, err
	}
	amountOut, err := fixedpoint.MulDivFloor(amountIn, pool.PcReserve, denominator)
	if err != nil {
		return nil, err
	}
	slippage, err := fixedpoint.MulDivFloor(amountOut, uint64(slippageBps), 10_000)
	if err != nil {
		return nil, err
	}
	return &SwapAmounts{
		AmountIn:     amountIn,
		AmountOut:    amountOut,
		MinAmountOut: amountOut - slippage,
	}, nil
}

// GetPriceImpact returns the relative price move, in percent, caused by selling amountIn coin.
func GetPriceImpact(pool *Pool, amountIn uint64) decimal.Decimal {
	if pool.CoinReserve == 0 || pool.PcReserve == 0 {
		return decimal.Zero
	}
	coin := decimal.NewFromUint64(pool.CoinReserve)
	pc := decimal.NewFromUint64(pool.PcReserve)
	in := decimal.NewFromUint64(amountIn)

	current := pc.DivRound(coin, 18)
	newCoin := coin.Add(in)
	newPc := coin.Mul(pc).DivRound(newCoin, 18)
	next := newPc.DivRound(newCoin, 18)
	return current.Sub(next).DivRound(current, 18).Shift(2)
}

// IsPoolActive reports whether the pool can trade.
func IsPoolActive(pool *Pool) bool {
	return pool.Status == PoolStatusActive &&
		pool.CoinReserve > 0 &&
		pool.PcReserve > 0
}

// Price returns the pc price of one whole coin unit.
func (p *Pool) Price(coinDecimals, pcDecimals uint8) decimal.Decimal {
	if p.CoinReserve == 0 {
		return decimal.Zero
	}
	pc := decimal.NewFromUint64(p.PcReserve).Shift(-int32(pcDecimals))
	coin := decimal.NewFromUint64(p.CoinReserve).Shift(-int32(coinDecimals))
	return pc.DivRound(coin, 18)
}

func (p Pool) MarshalWithEncoder(enc *bin.Encoder) error {
	for _, key := range []solana.PublicKey{p.ID, p.Authority, p.Market, p.CoinMint, p.PcMint, p.LPMint} {
		if err := enc.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	for _, v := range []uint64{p.CoinReserve, p.PcReserve, p.LPSupply} {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	if err := enc.WriteUint8(p.Nonce); err != nil {
		return err
	}
	if err := enc.WriteUint64(p.OpenTime, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint8(p.Status)
}

func (p *Pool) UnmarshalWithDecoder(dec *bin.Decoder) error {
	for _, key := range []*solana.PublicKey{&p.ID, &p.Authority, &p.Market, &p.CoinMint, &p.PcMint, &p.LPMint} {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		*key = solana.PublicKeyFromBytes(raw)
	}
	for _, v := range []*uint64{&p.CoinReserve, &p.PcReserve, &p.LPSupply} {
		n, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return err
		}
		*v = n
	}
	var err error
	if p.Nonce, err = dec.ReadUint8(); err != nil {
		return err
	}
	if p.OpenTime, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	p.Status, err = dec.ReadUint8()
	return err
}

func encodePool(p *Pool) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(poolDiscriminator[:])
	if err := p.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, fmt.Errorf("unable to encode pool: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePool(data []byte) (*Pool, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], poolDiscriminator[:]) {
		return nil, fmt.Errorf("not a pool account")
	}
	p := &Pool{}
	if err := p.UnmarshalWithDecoder(bin.NewBorshDecoder(data[8:])); err != nil {
		return nil, fmt.Errorf("unable to decode pool: %w", err)
	}
	return p, nil
}
