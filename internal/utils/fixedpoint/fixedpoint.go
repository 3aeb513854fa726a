// =============================================
// File: internal/utils/fixedpoint/fixedpoint.go
// =============================================

// Package fixedpoint converts raw integer amounts to exact decimal values and back.
//
// Every conversion back to an integer truncates toward zero, so any sub-unit remainder
// stays with the protocol and never with the user.
package fixedpoint

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

var (
	// ErrOverflow is returned when a result does not fit in a uint64 or is negative.
	ErrOverflow = errors.New("fixedpoint: overflow or underflow")
	// ErrDivisionByZero is returned by MulDivFloor for a zero divisor.
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
)

var hundred = decimal.NewFromInt(100)

// ToDecimal returns amount / 10^decimals without loss.
func ToDecimal(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// FromDecimal returns floor(value * 10^decimals).
func FromDecimal(value decimal.Decimal, decimals uint8) (uint64, error) {
	scaled := value.Shift(int32(decimals)).Floor()
	if scaled.Sign() < 0 {
		return 0, ErrOverflow
	}
	raw := scaled.BigInt()
	if !raw.IsUint64() {
		return 0, ErrOverflow
	}
	return raw.Uint64(), nil
}

// PercentOf returns floor(amount / 100 * pct) evaluated at the given decimal scale.
func PercentOf(amount uint64, decimals uint8, pct decimal.Decimal) (uint64, error) {
	// Shift(-2) is an exact division by 100.
	return FromDecimal(ToDecimal(amount, decimals).Shift(-2).Mul(pct), decimals)
}

// NetOfPercent returns floor(amount / 100 * (100 - pct)), the amount left after
// deducting pct percent.
func NetOfPercent(amount uint64, decimals uint8, pct decimal.Decimal) (uint64, error) {
	return PercentOf(amount, decimals, hundred.Sub(pct))
}

// MulDivFloor returns floor(a * b / c) using full-width intermediate precision.
func MulDivFloor(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	num := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	num.Quo(num, new(big.Int).SetUint64(c))
	if !num.IsUint64() {
		return 0, ErrOverflow
	}
	return num.Uint64(), nil
}

// CheckedAdd returns a + b or ErrOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedSub returns a - b or ErrOverflow when b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrOverflow
	}
	return diff, nil
}

// Pow10 returns 10^decimals or ErrOverflow when it does not fit in a uint64.
func Pow10(decimals uint8) (uint64, error) {
	if decimals > 19 {
		return 0, ErrOverflow
	}
	result := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		result *= 10
	}
	return result, nil
}
