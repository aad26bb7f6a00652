package eclp

import (
	"fmt"
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

var (
	e36               = pow10(36)
	noSqrtErrorFloor  = big.NewInt(1e9)
	boundaryDeduction = big.NewInt(9)
)

func dSqPow(d DerivedParams, n int) *big.Int {
	v := new(big.Int).Set(d.DSq)
	for i := 1; i < n; i++ {
		v = fp.MulXp(v, d.DSq)
	}
	return v
}

// CalcAtAChi is the scalar product of A t and A chi with A the ellipse to
// circle map and t the balances, rounded down.
func CalcAtAChi(x, y *big.Int, p Params, d DerivedParams) (*big.Int, error) {
	c := &calc{}
	v := calcAtAChi(c, x, y, p, d)
	return v, c.err
}

func calcAtAChi(c *calc, x, y *big.Int, p Params, d DerivedParams) *big.Int {
	dSq2 := fp.MulXp(d.DSq, d.DSq)

	// (w/lambda + z)/lambda/dSq^2
	termXp := c.divXp(c.divDownMag(add(c.divDownMag(d.W, p.Lambda), d.Z), p.Lambda), dSq2)
	val := fp.MulDownXpToNp(sub(fp.MulDownMag(x, p.C), fp.MulDownMag(y, p.S)), termXp)

	// (x lambda s + y lambda c) u/dSq^2
	termNp := add(fp.MulDownMag(fp.MulDownMag(x, p.Lambda), p.S), fp.MulDownMag(fp.MulDownMag(y, p.Lambda), p.C))
	val.Add(val, fp.MulDownXpToNp(termNp, c.divXp(d.U, dSq2)))

	// (x s + y c) v/dSq^2
	termNp = add(fp.MulDownMag(x, p.S), fp.MulDownMag(y, p.C))
	val.Add(val, fp.MulDownXpToNp(termNp, c.divXp(d.V, dSq2)))
	return val
}

// CalcAChiAChiInXp is |A chi|^2 at 38 decimals, rounded up.
func CalcAChiAChiInXp(p Params, d DerivedParams) (*big.Int, error) {
	c := &calc{}
	dSq3 := dSqPow(d, 3)

	val := fp.MulUpMag(p.Lambda, c.divXp(fp.MulXp(times(d.U, 2), d.V), dSq3))
	u1 := plus(d.U, 1)
	val.Add(val, fp.MulUpMag(fp.MulUpMag(c.divXp(fp.MulXp(u1, u1), dSq3), p.Lambda), p.Lambda))
	val.Add(val, c.divXp(fp.MulXp(d.V, d.V), dSq3))

	term := add(c.divUpMag(d.W, p.Lambda), d.Z)
	val.Add(val, c.divXp(fp.MulXp(term, term), dSq3))
	return val, c.err
}

func calcMinAtxAChiySqPlusAtxSq(c *calc, x, y *big.Int, p Params, d DerivedParams) *big.Int {
	termNp := add(
		fp.MulUpMag(fp.MulUpMag(fp.MulUpMag(x, x), p.C), p.C),
		fp.MulUpMag(fp.MulUpMag(fp.MulUpMag(y, y), p.S), p.S),
	)
	termNp.Sub(termNp, fp.MulDownMag(fp.MulDownMag(fp.MulDownMag(x, y), times(p.C, 2)), p.S))

	termXp := add(
		fp.MulXp(d.U, d.U),
		c.divDownMag(fp.MulXp(times(d.U, 2), d.V), p.Lambda),
		c.divDownMag(c.divDownMag(fp.MulXp(d.V, d.V), p.Lambda), p.Lambda),
	)
	termXp = c.divXp(termXp, dSqPow(d, 4))

	val := fp.MulDownXpToNp(neg(termNp), termXp)
	val.Add(val, fp.MulDownXpToNp(
		c.divDownMag(c.divDownMag(sub(termNp, boundaryDeduction), p.Lambda), p.Lambda),
		c.divXp(shared.OneXp, d.DSq),
	))
	return val
}

func calc2AtxAtyAChixAChiy(c *calc, x, y *big.Int, p Params, d DerivedParams) *big.Int {
	termNp := fp.MulDownMag(fp.MulDownMag(sub(fp.MulDownMag(x, x), fp.MulUpMag(y, y)), times(p.C, 2)), p.S)
	xy := fp.MulDownMag(y, times(x, 2))
	termNp.Add(termNp, sub(fp.MulDownMag(fp.MulDownMag(xy, p.C), p.C), fp.MulDownMag(fp.MulDownMag(xy, p.S), p.S)))

	termXp := add(
		fp.MulXp(d.Z, d.U),
		c.divDownMag(c.divDownMag(fp.MulXp(d.W, d.V), p.Lambda), p.Lambda),
		c.divDownMag(add(fp.MulXp(d.W, d.U), fp.MulXp(d.Z, d.V)), p.Lambda),
	)
	return fp.MulDownXpToNp(termNp, c.divXp(termXp, dSqPow(d, 4)))
}

func calcMinAtyAChixSqPlusAtySq(c *calc, x, y *big.Int, p Params, d DerivedParams) *big.Int {
	termNp := add(
		fp.MulUpMag(fp.MulUpMag(fp.MulUpMag(x, x), p.S), p.S),
		fp.MulUpMag(fp.MulUpMag(fp.MulUpMag(y, y), p.C), p.C),
		fp.MulUpMag(fp.MulUpMag(fp.MulUpMag(x, y), times(p.S, 2)), p.C),
	)

	termXp := add(
		fp.MulXp(d.Z, d.Z),
		c.divDownMag(c.divDownMag(fp.MulXp(d.W, d.W), p.Lambda), p.Lambda),
		c.divDownMag(fp.MulXp(times(d.Z, 2), d.W), p.Lambda),
	)
	val := fp.MulDownXpToNp(neg(termNp), c.divXp(termXp, dSqPow(d, 4)))
	val.Add(val, fp.MulDownXpToNp(sub(termNp, boundaryDeduction), c.divXp(shared.OneXp, d.DSq)))
	return val
}

// calcInvariantSqrt returns the square root of the invariant discriminant
// (zero when rounding drives it negative) and the error of the
// discriminant itself.
func calcInvariantSqrt(c *calc, x, y *big.Int, p Params, d DerivedParams) (root, err *big.Int) {
	val := add(
		calcMinAtxAChiySqPlusAtxSq(c, x, y, p, d),
		calc2AtxAtyAChixAChiy(c, x, y, p, d),
		calcMinAtyAChixSqPlusAtySq(c, x, y, p, d),
	)
	err = add(fp.MulUpMag(x, x), fp.MulUpMag(y, y))
	err.Quo(err, shared.OneXp)

	if val.Sign() <= 0 {
		return new(big.Int), err
	}
	return c.sqrt(val), err
}

// CalculateInvariantWithError returns an underestimate L of the invariant
// and a bound err on its error. Swap math uses the vector (L+2err, L).
func CalculateInvariantWithError(balances []*big.Int, p Params, d DerivedParams) (invariant, invErr *big.Int, err error) {
	if len(balances) != 2 {
		return nil, nil, shared.ErrBalancesLength
	}
	if err := fp.CheckAmounts(balances); err != nil {
		return nil, nil, err
	}
	x, y := balances[0], balances[1]
	if add(x, y).Cmp(maxBalances) > 0 {
		return nil, nil, fmt.Errorf("eclp: %w", shared.ErrMaxAssetsExceeded)
	}

	c := &calc{}
	atAChi := calcAtAChi(c, x, y, p, d)
	root, e := calcInvariantSqrt(c, x, y, p, d)

	// error of the discriminant propagated through the square root
	if root.Sign() > 0 {
		e = c.divUpMag(plus(e, 1), times(root, 2))
	} else if e.Sign() > 0 {
		e = c.sqrt(e)
	} else {
		e = new(big.Int).Set(noSqrtErrorFloor)
	}

	// error of the other terms, scaled generously
	lamTerm := fp.MulUpMag(p.Lambda, add(x, y))
	lamTerm.Quo(lamTerm, shared.OneXp)
	e = times(add(lamTerm, e, big.NewInt(1)), 20)

	achiachi, aerr := CalcAChiAChiInXp(p, d)
	if aerr != nil {
		return nil, nil, aerr
	}
	den := sub(achiachi, shared.OneXp)
	if den.Sign() <= 0 {
		return nil, nil, shared.Configuration("lambda", shared.ErrInvariantDenominator)
	}
	mulDenominator := c.divXp(shared.OneXp, den)
	if c.err != nil {
		return nil, nil, c.err
	}

	invariant = fp.MulDownXpToNp(sub(add(atAChi, root), e), mulDenominator)

	// error is scaled by the denominator, plus a term for the error of the
	// denominator itself
	invErr = fp.MulUpXpToNp(e, mulDenominator)
	lamSq := new(big.Int).Mul(p.Lambda, p.Lambda)
	lamSq.Quo(lamSq, e36)
	denErr := new(big.Int).Mul(fp.MulUpXpToNp(invariant, mulDenominator), lamSq)
	denErr.Mul(denErr, big.NewInt(40))
	denErr.Quo(denErr, shared.OneXp)
	invErr = add(invErr, denErr, big.NewInt(1))

	if add(invariant, invErr).Cmp(maxInvariant) > 0 {
		return nil, nil, fmt.Errorf("eclp: %w", shared.ErrInvariantExceeded)
	}
	return invariant, invErr, nil
}

// CalculateInvariant drops the error bound.
func CalculateInvariant(balances []*big.Int, p Params, d DerivedParams) (*big.Int, error) {
	invariant, _, err := CalculateInvariantWithError(balances, p, d)
	return invariant, err
}

// InvariantVector is the pair (L + 2 err, L) consumed by the swap math: the
// first component overestimates the invariant and the second underestimates
// it.
func InvariantVector(invariant, invErr *big.Int) shared.Vector2 {
	return shared.Vector2{
		X: add(invariant, times(invErr, 2)),
		Y: new(big.Int).Set(invariant),
	}
}
