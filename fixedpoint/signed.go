package fixedpoint

import (
	"math/big"

	"github.com/krazyTry/gyro-go/shared"
)

// Signed arithmetic. "Mag" variants round the magnitude: down is toward
// zero, up is away from zero. Division truncates toward zero as on-chain
// integer division does, which is what big.Int.Quo implements. Inflated
// numerators are held to a signed 256-bit word.

var e19 = new(big.Int).Exp(big.NewInt(10), big.NewInt(19), nil)

func MulDownMag(a, b *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, shared.One)
}

func MulUpMag(a, b *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	switch product.Sign() {
	case 1:
		product.Sub(product, big.NewInt(1))
		product.Quo(product, shared.One)
		return product.Add(product, big.NewInt(1))
	case -1:
		product.Add(product, big.NewInt(1))
		product.Quo(product, shared.One)
		return product.Sub(product, big.NewInt(1))
	}
	return product
}

func DivDownMag(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, shared.Arithmetic("divDownMag", shared.ErrDivisionByZero)
	}
	if a.Sign() == 0 {
		return big.NewInt(0), nil
	}
	inflated := new(big.Int).Mul(a, shared.One)
	if err := CheckWord(inflated); err != nil {
		return nil, err
	}
	return inflated.Quo(inflated, b), nil
}

func DivUpMag(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, shared.Arithmetic("divUpMag", shared.ErrDivisionByZero)
	}
	if a.Sign() == 0 {
		return big.NewInt(0), nil
	}
	inflated := new(big.Int).Mul(a, shared.One)
	if err := CheckWord(inflated); err != nil {
		return nil, err
	}
	d := b
	if b.Sign() < 0 {
		d = new(big.Int).Neg(b)
		inflated.Neg(inflated)
	}
	if inflated.Sign() > 0 {
		inflated.Sub(inflated, big.NewInt(1))
		inflated.Quo(inflated, d)
		return inflated.Add(inflated, big.NewInt(1)), nil
	}
	inflated.Add(inflated, big.NewInt(1))
	inflated.Quo(inflated, d)
	return inflated.Sub(inflated, big.NewInt(1)), nil
}

// AddMag moves a away from zero by b.
func AddMag(a, b *big.Int) *big.Int {
	if a.Sign() > 0 {
		return new(big.Int).Add(a, b)
	}
	return new(big.Int).Sub(a, b)
}

// 38 decimal ("extra precision") arithmetic.

func MulXp(a, b *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, shared.OneXp)
}

func DivXp(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, shared.Arithmetic("divXp", shared.ErrDivisionByZero)
	}
	if a.Sign() == 0 {
		return big.NewInt(0), nil
	}
	inflated := new(big.Int).Mul(a, shared.OneXp)
	if err := CheckWord(inflated); err != nil {
		return nil, err
	}
	return inflated.Quo(inflated, b), nil
}

func splitXp(a, b *big.Int) (prod1, prod2 *big.Int) {
	b1, b2 := new(big.Int).QuoRem(b, e19, new(big.Int))
	prod1 = b1.Mul(a, b1)
	prod2 = b2.Mul(a, b2)
	return prod1, prod2
}

// MulDownXpToNp multiplies an 18 decimal a by a 38 decimal b and returns an
// 18 decimal result rounded toward negative infinity (down in value).
func MulDownXpToNp(a, b *big.Int) *big.Int {
	prod1, prod2 := splitXp(a, b)
	p1Sign, p2Sign := prod1.Sign(), prod2.Sign()
	prod2.Quo(prod2, e19)
	sum := prod1.Add(prod1, prod2)
	if p1Sign >= 0 && p2Sign >= 0 {
		return sum.Quo(sum, e19)
	}
	sum.Add(sum, big.NewInt(1))
	sum.Quo(sum, e19)
	return sum.Sub(sum, big.NewInt(1))
}

// MulUpXpToNp is MulDownXpToNp rounded toward positive infinity.
func MulUpXpToNp(a, b *big.Int) *big.Int {
	prod1, prod2 := splitXp(a, b)
	p1Sign, p2Sign := prod1.Sign(), prod2.Sign()
	prod2.Quo(prod2, e19)
	sum := prod1.Add(prod1, prod2)
	if p1Sign <= 0 && p2Sign <= 0 {
		return sum.Quo(sum, e19)
	}
	sum.Sub(sum, big.NewInt(1))
	sum.Quo(sum, e19)
	return sum.Add(sum, big.NewInt(1))
}
