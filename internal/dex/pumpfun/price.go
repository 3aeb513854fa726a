// =============================
// File: internal/dex/pumpfun/price.go
// =============================
package pumpfun

import (
	"github.com/shopspring/decimal"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

// SpotPrice returns the marginal price of one whole token in whole base units:
// (reserve_lamport / 10^9) / (reserve_token / 10^decimals). Zero for an empty curve.
func (bc *BondingCurve) SpotPrice(decimals uint8) decimal.Decimal {
	if bc.ReserveToken == 0 || bc.ReserveLamport == 0 {
		return decimal.Zero
	}
	base := fixedpoint.ToDecimal(bc.ReserveLamport, LamportDecimals)
	tokens := fixedpoint.ToDecimal(bc.ReserveToken, decimals)
	return base.DivRound(tokens, 18)
}

// MarketCap values the whole supply at the spot price, in whole base units.
func (bc *BondingCurve) MarketCap(decimals uint8, supply uint64) decimal.Decimal {
	return bc.SpotPrice(decimals).Mul(fixedpoint.ToDecimal(supply, decimals))
}
