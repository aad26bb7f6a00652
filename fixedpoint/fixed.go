package fixedpoint

import (
	"math/big"

	"github.com/krazyTry/gyro-go/shared"
)

// Unsigned 18 decimal arithmetic. Inputs are expected to be non-negative;
// results are fresh values and never alias the arguments.

// mulDiv returns x*y/d for non-negative operands. The product has to fit a
// signed 256-bit word.
func mulDiv(op string, x, y, d *big.Int, rounding shared.Rounding) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, shared.Arithmetic(op, shared.ErrDivisionByZero)
	}
	if x.Sign() == 0 || y.Sign() == 0 {
		return big.NewInt(0), nil
	}
	product := new(big.Int).Mul(x, y)
	if err := CheckWord(product); err != nil {
		return nil, err
	}
	q, r := product.QuoRem(product, d, new(big.Int))
	if rounding == shared.RoundingUp && r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q, nil
}

func MulDown(a, b *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, shared.One)
}

func MulUp(a, b *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	if product.Sign() == 0 {
		return product
	}
	product.Sub(product, big.NewInt(1))
	product.Quo(product, shared.One)
	return product.Add(product, big.NewInt(1))
}

func DivDown(a, b *big.Int) (*big.Int, error) {
	return mulDiv("divDown", a, shared.One, b, shared.RoundingDown)
}

func DivUp(a, b *big.Int) (*big.Int, error) {
	return mulDiv("divUp", a, shared.One, b, shared.RoundingUp)
}

// Complement returns 1 - x, or 0 when x >= 1.
func Complement(x *big.Int) *big.Int {
	if x.Cmp(shared.One) >= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sub(shared.One, x)
}

func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, shared.Arithmetic("sub", shared.ErrUnderflow)
	}
	return new(big.Int).Sub(a, b), nil
}
