package decimal_math

import (
	"github.com/shopspring/decimal"
)

func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// Scale lifts a raw integer scaled by 10^digits into a decimal.
func Scale(raw decimal.Decimal, digits int32) decimal.Decimal {
	return raw.Shift(-digits)
}

// Unscale is the inverse of Scale, truncating toward zero.
func Unscale(x decimal.Decimal, digits int32) decimal.Decimal {
	return x.Shift(digits).Truncate(0)
}
