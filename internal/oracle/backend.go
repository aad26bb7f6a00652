// Package oracle evaluates pool invariants and swaps in closed form at high
// precision. It is an independent reference for the fixed point packages and
// is only imported from tests.
package oracle

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/gyro-go/decimal_math"
	fp "github.com/krazyTry/gyro-go/fixedpoint"
)

const Digits = 100

// Backend is a real number implementation at a fixed number of digits.
// Results of Mul, Div and Sqrt are truncated toward zero.
type Backend[T any] interface {
	Name() string
	FromRaw(raw *big.Int, decimals int32) T
	FromString(s string) (T, error)
	ToRaw(v T, decimals int32) *big.Int
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) (T, error)
	Sqrt(a T) (T, error)
	Cmp(a, b T) int
	String(v T) string
}

// Shopspring runs on shopspring/decimal, truncating products and quotients
// to Digits places.
type Shopspring struct{}

var _ Backend[decimal.Decimal] = Shopspring{}

func (Shopspring) Name() string { return "shopspring" }

func (Shopspring) FromRaw(raw *big.Int, decimals int32) decimal.Decimal {
	return decimal_math.Scale(decimal.NewFromBigInt(raw, 0), decimals)
}

func (Shopspring) FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func (Shopspring) ToRaw(v decimal.Decimal, decimals int32) *big.Int {
	return decimal_math.Unscale(v, decimals).BigInt()
}

func (Shopspring) Add(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }

func (Shopspring) Sub(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }

func (Shopspring) Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(Digits)
}

func (Shopspring) Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	return decimal_math.Quo(a, b, Digits)
}

func (Shopspring) Sqrt(a decimal.Decimal) (decimal.Decimal, error) {
	return decimal_math.Sqrt(a, decimal_math.BitsForDigits(Digits), Digits)
}

func (Shopspring) Cmp(a, b decimal.Decimal) int { return a.Cmp(b) }

func (Shopspring) String(v decimal.Decimal) string { return v.String() }

// Fixed runs on the scaled integer fixedpoint.Decimal[P100].
type Fixed struct{}

type D100 = fp.Decimal[fp.P100]

var _ Backend[D100] = Fixed{}

func (Fixed) Name() string { return "fixed100" }

func (Fixed) FromRaw(raw *big.Int, decimals int32) D100 {
	return fp.DecimalFromShopspring[fp.P100](decimal.NewFromBigInt(raw, -decimals))
}

func (Fixed) FromString(s string) (D100, error) {
	return fp.DecimalFromString[fp.P100](s)
}

func (Fixed) ToRaw(v D100, decimals int32) *big.Int {
	return decimal_math.Unscale(v.Shopspring(), decimals).BigInt()
}

func (Fixed) Add(a, b D100) D100 { return a.Add(b) }

func (Fixed) Sub(a, b D100) D100 { return a.Sub(b) }

func (Fixed) Mul(a, b D100) D100 { return a.MulDown(b) }

func (Fixed) Div(a, b D100) (D100, error) { return a.DivDown(b) }

func (Fixed) Sqrt(a D100) (D100, error) { return a.Sqrt() }

// Cmp is exact; the quantized comparison of the type is meant for callers.
func (Fixed) Cmp(a, b D100) int { return a.CmpExact(b) }

func (Fixed) String(v D100) string { return v.String() }

// calc threads the first error through a chain of operations.
type calc[T any] struct {
	be  Backend[T]
	err error
}

func (c *calc[T]) div(a, b T) T {
	if c.err != nil {
		return a
	}
	v, err := c.be.Div(a, b)
	if err != nil {
		c.err = err
	}
	return v
}

func (c *calc[T]) sqrt(a T) T {
	if c.err != nil {
		return a
	}
	v, err := c.be.Sqrt(a)
	if err != nil {
		c.err = err
	}
	return v
}

func (c *calc[T]) num(s string) T {
	v, err := c.be.FromString(s)
	if err != nil && c.err == nil {
		c.err = err
	}
	return v
}

func (c *calc[T]) raw(v *big.Int) T {
	return c.be.FromRaw(v, 18)
}

func (c *calc[T]) sq(a T) T {
	return c.be.Mul(a, a)
}

func (c *calc[T]) neg(a T) T {
	return c.be.Sub(c.num("0"), a)
}
