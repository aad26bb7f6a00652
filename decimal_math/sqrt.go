package decimal_math

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/gyro-go/shared"
)

// BitsForDigits returns a big.Float mantissa size that carries n decimal
// digits with a few guard digits to spare.
func BitsForDigits(n int32) uint {
	return uint(n+8)*10/3 + 1
}

// Sqrt evaluates the square root with a prec-bit mantissa and truncates the
// result to digits fractional places.
func Sqrt(x decimal.Decimal, prec uint, digits int32) (decimal.Decimal, error) {
	if x.Sign() < 0 {
		return decimal.Zero, shared.Arithmetic("decimal sqrt", shared.ErrNegativeSqrt)
	}
	if x.IsZero() {
		return decimal.Zero, nil
	}

	operand, ok := new(big.Float).SetPrec(prec).SetString(x.String())
	if !ok {
		return decimal.Zero, fmt.Errorf("decimal sqrt: cannot parse %s", x.String())
	}
	out, err := decimal.NewFromString(
		new(big.Float).SetPrec(prec).Sqrt(operand).Text('f', int(digits)+4),
	)
	if err != nil {
		return decimal.Zero, err
	}
	return out.Truncate(digits), nil
}
