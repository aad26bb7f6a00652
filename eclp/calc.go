package eclp

import (
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

// calc keeps the first error of a chain of fallible fixed point operations
// so the formulas below read as straight arithmetic. After an error every
// operation returns zero.
type calc struct {
	err error
}

func (c *calc) keep(v *big.Int, err error) *big.Int {
	if c.err != nil {
		return new(big.Int)
	}
	if err != nil {
		c.err = err
		return new(big.Int)
	}
	return v
}

func (c *calc) divXp(a, b *big.Int) *big.Int {
	if c.err != nil {
		return new(big.Int)
	}
	return c.keep(fp.DivXp(a, b))
}

func (c *calc) divDownMag(a, b *big.Int) *big.Int {
	if c.err != nil {
		return new(big.Int)
	}
	return c.keep(fp.DivDownMag(a, b))
}

func (c *calc) divUpMag(a, b *big.Int) *big.Int {
	if c.err != nil {
		return new(big.Int)
	}
	return c.keep(fp.DivUpMag(a, b))
}

func (c *calc) sqrt(x *big.Int) *big.Int {
	if c.err != nil {
		return new(big.Int)
	}
	return c.keep(fp.Sqrt(x, big.NewInt(shared.SqrtTolerance)))
}

func add(xs ...*big.Int) *big.Int {
	sum := new(big.Int)
	for _, x := range xs {
		sum.Add(sum, x)
	}
	return sum
}

func sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

func neg(a *big.Int) *big.Int {
	return new(big.Int).Neg(a)
}

func times(a *big.Int, k int64) *big.Int {
	return new(big.Int).Mul(a, big.NewInt(k))
}

func plus(a *big.Int, k int64) *big.Int {
	return new(big.Int).Add(a, big.NewInt(k))
}
