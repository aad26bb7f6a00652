package shared

import (
	"errors"
	"fmt"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNegativeSqrt   = errors.New("sqrt of negative value")
	ErrOverflow       = errors.New("value overflows 256-bit word")
	ErrSqrtTolerance  = errors.New("sqrt result outside tolerance")
	ErrUnderflow      = errors.New("subtraction underflow")

	ErrRatioLimitExceeded  = errors.New("swap amount exceeds max ratio")
	ErrMinBalanceRatio     = errors.New("balance ratio below minimum")
	ErrAssetBoundsExceeded = errors.New("asset bounds exceeded")
	ErrMaxAssetsExceeded   = errors.New("balances exceed max assets")
	ErrInvariantExceeded   = errors.New("invariant exceeds max")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrBalancesLength      = errors.New("unexpected number of balances")

	ErrPriceBounds           = errors.New("price bounds invalid")
	ErrRotationVector        = errors.New("rotation vector invalid")
	ErrRotationNotNormalized = errors.New("rotation vector not normalized")
	ErrStretchFactor         = errors.New("stretching factor out of range")
	ErrDerivedParams         = errors.New("derived params out of range")
	ErrInvariantDenominator  = errors.New("invariant denominator out of range")
	ErrSwapFee               = errors.New("swap fee out of range")
	ErrUnknownPoolKind       = errors.New("unknown pool kind")
	ErrUnknownSwapKind       = errors.New("unknown swap kind")
)

// ArithmeticError is fatal to the call that produced it. Retrying the same
// call reproduces it.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic: %s: %v", e.Op, e.Err)
}

func (e *ArithmeticError) Unwrap() error { return e.Err }

func Arithmetic(op string, err error) error {
	return &ArithmeticError{Op: op, Err: err}
}

// ConfigurationError rejects pool creation.
type ConfigurationError struct {
	Param string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Param, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func Configuration(param string, err error) error {
	return &ConfigurationError{Param: param, Err: err}
}

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func IsArithmeticError(err error) bool {
	var ae *ArithmeticError
	return errors.As(err, &ae)
}
