// =============================
// File: internal/dex/pumpfun/errors.go
// =============================
package pumpfun

import (
	"errors"
	"fmt"

	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

// Kind groups protocol errors by how a caller should react to them.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindValidation: a caller-supplied parameter is outside its allowed domain. Safe to retry with corrected input.
	KindValidation
	// KindAuthorization: the signer does not match the required identity.
	KindAuthorization
	// KindArithmetic: a checked operation would leave the representable range.
	KindArithmetic
	// KindState: a precondition for the operation is not met yet (or no longer).
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindArithmetic:
		return "arithmetic"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed protocol failure. Sentinels below are compared with errors.Is.
type Error struct {
	Code    uint32
	Name    string
	Message string
	Kind    Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}

var (
	ErrValueTooSmall          = &Error{6000, "ValueTooSmall", "value too small", KindValidation}
	ErrValueTooLarge          = &Error{6001, "ValueTooLarge", "value too large", KindValidation}
	ErrValueInvalid           = &Error{6002, "ValueInvalid", "value invalid", KindValidation}
	ErrIncorrectAuthority     = &Error{6003, "IncorrectAuthority", "incorrect authority", KindAuthorization}
	ErrOverflowOrUnderflow    = &Error{6004, "OverflowOrUnderflowOccurred", "overflow or underflow occurred", KindArithmetic}
	ErrInvalidAmount          = &Error{6005, "InvalidAmount", "amount is invalid", KindValidation}
	ErrIncorrectTeamWallet    = &Error{6006, "IncorrectTeamWallet", "incorrect team wallet address", KindAuthorization}
	ErrCurveNotCompleted      = &Error{6007, "CurveNotCompleted", "curve is not completed", KindState}
	ErrMintAuthorityEnabled   = &Error{6008, "MintAuthorityEnabled", "mint authority should be revoked", KindState}
	ErrFreezeAuthorityEnabled = &Error{6009, "FreezeAuthorityEnabled", "freeze authority should be revoked", KindState}
	ErrReturnAmountTooSmall   = &Error{6010, "ReturnAmountTooSmall", "return amount is too small compared to the minimum received amount", KindValidation}
	ErrCurveCompleted         = &Error{6011, "CurveCompleted", "curve is completed and no longer trades", KindState}
	ErrCurveAlreadySettled    = &Error{6012, "CurveAlreadySettled", "curve reserves were already withdrawn or migrated", KindState}
	ErrNotConfigured          = &Error{6013, "NotConfigured", "global config is not initialized", KindState}
	ErrCurveAlreadyLaunched   = &Error{6014, "CurveAlreadyLaunched", "a bonding curve already exists for this mint", KindState}
)

// KindOf reports the kind of a protocol error anywhere in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsProtocolError reports whether err carries one of the typed protocol errors.
func IsProtocolError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// checked maps fixed-point arithmetic failures onto ErrOverflowOrUnderflow.
func checked(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fixedpoint.ErrOverflow) || errors.Is(err, fixedpoint.ErrDivisionByZero) {
		return fmt.Errorf("%v: %w", err, ErrOverflowOrUnderflow)
	}
	return err
}
