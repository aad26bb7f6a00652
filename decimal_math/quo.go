package decimal_math

import (
	"github.com/shopspring/decimal"

	"github.com/krazyTry/gyro-go/shared"
)

// Quo divides truncating toward zero at digits fractional places.
func Quo(x, y decimal.Decimal, digits int32) (decimal.Decimal, error) {
	if y.IsZero() {
		return decimal.Zero, shared.Arithmetic("decimal quo", shared.ErrDivisionByZero)
	}
	q, _ := x.QuoRem(y, digits)
	return q, nil
}
