package fixedpoint

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/gyro-go/shared"
)

// Precision fixes the number of fractional digits of a Decimal.
type Precision interface {
	Digits() int32
}

type P18 struct{}

func (P18) Digits() int32 { return 18 }

type P38 struct{}

func (P38) Digits() int32 { return 38 }

type P100 struct{}

func (P100) Digits() int32 { return 100 }

// Decimal is a signed fixed point value with P fractional digits. The zero
// value is 0. Ordering and equality are evaluated at 18 digits so values that
// differ only below 1e-18 compare equal.
type Decimal[P Precision] struct {
	raw *big.Int
}

var (
	pow10Mu    sync.Mutex
	pow10Cache = map[int32]*big.Int{}
)

func pow10(n int32) *big.Int {
	pow10Mu.Lock()
	defer pow10Mu.Unlock()
	if v, ok := pow10Cache[n]; ok {
		return v
	}
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	pow10Cache[n] = v
	return v
}

func digits[P Precision]() int32 {
	var p P
	return p.Digits()
}

func scale[P Precision]() *big.Int {
	return pow10(digits[P]())
}

// NewDecimal wraps a raw scaled integer.
func NewDecimal[P Precision](raw *big.Int) Decimal[P] {
	return Decimal[P]{raw: new(big.Int).Set(raw)}
}

func DecimalFromInt[P Precision](n int64) Decimal[P] {
	return Decimal[P]{raw: new(big.Int).Mul(big.NewInt(n), scale[P]())}
}

// DecimalFromString parses a decimal literal, truncating digits beyond P
// toward zero.
func DecimalFromString[P Precision](s string) (Decimal[P], error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal[P]{}, fmt.Errorf("fixedpoint: parse %q: %w", s, err)
	}
	return DecimalFromShopspring[P](d), nil
}

func DecimalFromShopspring[P Precision](d decimal.Decimal) Decimal[P] {
	return Decimal[P]{raw: d.Shift(digits[P]()).BigInt()}
}

// Rescale converts between precisions, truncating toward zero when digits
// are dropped.
func Rescale[Q Precision, P Precision](d Decimal[P]) Decimal[Q] {
	from, to := digits[P](), digits[Q]()
	raw := new(big.Int).Set(d.int())
	switch {
	case to > from:
		raw.Mul(raw, pow10(to-from))
	case to < from:
		raw.Quo(raw, pow10(from-to))
	}
	return Decimal[Q]{raw: raw}
}

func (d Decimal[P]) int() *big.Int {
	if d.raw == nil {
		return new(big.Int)
	}
	return d.raw
}

// Raw returns a copy of the scaled integer.
func (d Decimal[P]) Raw() *big.Int {
	return new(big.Int).Set(d.int())
}

func (d Decimal[P]) Shopspring() decimal.Decimal {
	return decimal.NewFromBigInt(d.int(), -digits[P]())
}

func (d Decimal[P]) String() string {
	return d.Shopspring().String()
}

func (d Decimal[P]) Sign() int {
	return d.int().Sign()
}

func (d Decimal[P]) IsZero() bool {
	return d.Sign() == 0
}

func (d Decimal[P]) Add(e Decimal[P]) Decimal[P] {
	return Decimal[P]{raw: new(big.Int).Add(d.int(), e.int())}
}

func (d Decimal[P]) Sub(e Decimal[P]) Decimal[P] {
	return Decimal[P]{raw: new(big.Int).Sub(d.int(), e.int())}
}

func (d Decimal[P]) Neg() Decimal[P] {
	return Decimal[P]{raw: new(big.Int).Neg(d.int())}
}

func (d Decimal[P]) Abs() Decimal[P] {
	return Decimal[P]{raw: new(big.Int).Abs(d.int())}
}

// Mul rounds the magnitude of the product in the given direction.
func (d Decimal[P]) Mul(e Decimal[P], rounding shared.Rounding) Decimal[P] {
	product := new(big.Int).Mul(d.int(), e.int())
	return Decimal[P]{raw: quoMag(product, scale[P](), rounding)}
}

func (d Decimal[P]) MulDown(e Decimal[P]) Decimal[P] {
	return d.Mul(e, shared.RoundingDown)
}

func (d Decimal[P]) MulUp(e Decimal[P]) Decimal[P] {
	return d.Mul(e, shared.RoundingUp)
}

func (d Decimal[P]) Div(e Decimal[P], rounding shared.Rounding) (Decimal[P], error) {
	if e.Sign() == 0 {
		return Decimal[P]{}, shared.Arithmetic("decimal div", shared.ErrDivisionByZero)
	}
	inflated := new(big.Int).Mul(d.int(), scale[P]())
	return Decimal[P]{raw: quoMag(inflated, e.int(), rounding)}, nil
}

func (d Decimal[P]) DivDown(e Decimal[P]) (Decimal[P], error) {
	return d.Div(e, shared.RoundingDown)
}

func (d Decimal[P]) DivUp(e Decimal[P]) (Decimal[P], error) {
	return d.Div(e, shared.RoundingUp)
}

// Sqrt returns the square root truncated to P digits.
func (d Decimal[P]) Sqrt() (Decimal[P], error) {
	if d.Sign() < 0 {
		return Decimal[P]{}, shared.Arithmetic("decimal sqrt", shared.ErrNegativeSqrt)
	}
	inflated := new(big.Int).Mul(d.int(), scale[P]())
	return Decimal[P]{raw: inflated.Sqrt(inflated)}, nil
}

func (d Decimal[P]) quantized() *big.Int {
	n := digits[P]()
	if n <= shared.Decimals {
		return d.int()
	}
	return new(big.Int).Quo(d.int(), pow10(n-shared.Decimals))
}

// Cmp compares at 18 digit quantization.
func (d Decimal[P]) Cmp(e Decimal[P]) int {
	return d.quantized().Cmp(e.quantized())
}

// CmpExact compares at full precision.
func (d Decimal[P]) CmpExact(e Decimal[P]) int {
	return d.int().Cmp(e.int())
}

// quoMag divides rounding the magnitude of the quotient.
func quoMag(n, den *big.Int, rounding shared.Rounding) *big.Int {
	q, r := new(big.Int).QuoRem(n, den, new(big.Int))
	if rounding == shared.RoundingUp && r.Sign() != 0 {
		if (n.Sign() < 0) != (den.Sign() < 0) {
			return q.Sub(q, big.NewInt(1))
		}
		return q.Add(q, big.NewInt(1))
	}
	return q
}
