// internal/dex/raydium/constants.go
package raydium

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Program IDs
var (
	RaydiumV4ProgramID = solana.MPK("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	OpenBookProgramID  = solana.MPK("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	WrappedSolMint     = solana.MPK("So11111111111111111111111111111111111111112")
	// FeeDestination collects the pool creation fee.
	FeeDestination = solana.MPK("7YttLkHDoNj9wyDur5pM1ejNaAvT9X4eqaYcHQqtj2G5")
)

// PoolCreationFee is charged to the payer of every initialize2 call, in lamports.
const PoolCreationFee uint64 = 400_000_000

// PDA seeds, as used by initialize2.
const (
	AmmAssociatedSeed    = "amm_associated_seed"
	AmmAuthoritySeed     = "amm authority"
	CoinVaultSeed        = "coin_vault_associated_seed"
	PcVaultSeed          = "pc_vault_associated_seed"
	LpMintSeed           = "lp_mint_associated_seed"
	OpenOrderSeed        = "open_order_associated_seed"
	TargetAssociatedSeed = "target_associated_seed"
	MarketSeed           = "market"
)

// Pool status
const (
	PoolStatusUninitialized uint8 = 0
	PoolStatusInitialized   uint8 = 1
	PoolStatusDisabled      uint8 = 2
	PoolStatusActive        uint8 = 3
)

// Error codes
const (
	ErrPoolNotFound      = "POOL_NOT_FOUND"
	ErrPoolExists        = "POOL_EXISTS"
	ErrInvalidPoolStatus = "INVALID_POOL_STATUS"
	ErrInvalidMint       = "INVALID_MINT"
	ErrInvalidAmount     = "INVALID_AMOUNT"
	ErrUnavailable       = "UNAVAILABLE"
)

// Error is returned by every AMM operation.
type Error struct {
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

func NewRaydiumError(code string, message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// IsTransient reports whether a retry of the same call may succeed.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrUnavailable
}
