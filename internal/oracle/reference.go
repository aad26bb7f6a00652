package oracle

import (
	"math/big"
)

const (
	bisectionSteps = 340
	maxDoublings   = 400
)

// TwoCLPInvariant solves (x + L/sqrtBeta)(y + L*sqrtAlpha) = L^2 for its
// positive root. Inputs are raw 18 decimal values.
func TwoCLPInvariant[T any](be Backend[T], balances []*big.Int, sqrtAlpha, sqrtBeta *big.Int) (T, error) {
	c := &calc[T]{be: be}
	x, y := c.raw(balances[0]), c.raw(balances[1])
	sa, sb := c.raw(sqrtAlpha), c.raw(sqrtBeta)

	a := be.Sub(c.num("1"), c.div(sa, sb))
	mb := be.Add(c.div(y, sb), be.Mul(x, sa))
	radicand := be.Add(c.sq(mb), be.Mul(be.Mul(c.num("4"), a), be.Mul(x, y)))
	l := c.div(be.Add(mb, c.sqrt(radicand)), be.Mul(c.num("2"), a))
	return l, c.err
}

// ThreeCLPInvariant brackets the positive root of
// (1-r^3) L^3 - r^2 (x+y+z) L^2 - r (xy+yz+zx) L - xyz
// and bisects it. The returned value is the lower end of the final bracket.
func ThreeCLPInvariant[T any](be Backend[T], balances []*big.Int, root3Alpha *big.Int) (T, error) {
	c := &calc[T]{be: be}
	x, y, z := c.raw(balances[0]), c.raw(balances[1]), c.raw(balances[2])
	r := c.raw(root3Alpha)
	r2 := c.sq(r)

	a := be.Sub(c.num("1"), be.Mul(r2, r))
	b := c.neg(be.Mul(r2, be.Add(be.Add(x, y), z)))
	pairs := be.Add(be.Add(be.Mul(x, y), be.Mul(y, z)), be.Mul(z, x))
	cc := c.neg(be.Mul(r, pairs))
	d := c.neg(be.Mul(be.Mul(x, y), z))

	f := func(l T) T {
		v := be.Add(be.Mul(a, l), b)
		v = be.Add(be.Mul(v, l), cc)
		return be.Add(be.Mul(v, l), d)
	}

	zero := c.num("0")
	lo, hi := zero, c.num("1")
	for i := 0; i < maxDoublings && be.Cmp(f(hi), zero) <= 0; i++ {
		lo = hi
		hi = be.Add(hi, hi)
	}
	half := c.num("0.5")
	for i := 0; i < bisectionSteps; i++ {
		mid := be.Mul(be.Add(lo, hi), half)
		if be.Cmp(f(mid), zero) <= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, c.err
}

// ECLPParams are raw 18 decimal pool parameters.
type ECLPParams struct {
	Alpha, Beta, C, S, Lambda *big.Int
}

type eclp[T any] struct {
	c             *calc[T]
	cos, sin, lam T
	chiX, chiY    T
}

func newECLP[T any](be Backend[T], p ECLPParams) *eclp[T] {
	c := &calc[T]{be: be}
	cos, sin := c.raw(p.C), c.raw(p.S)
	norm := c.sqrt(be.Add(c.sq(cos), c.sq(sin)))
	cos, sin = c.div(cos, norm), c.div(sin, norm)
	lam := c.raw(p.Lambda)

	tau := func(px T) (T, T) {
		vx := be.Sub(be.Mul(px, cos), sin)
		vy := c.div(be.Add(cos, be.Mul(sin, px)), lam)
		n := c.sqrt(be.Add(c.sq(vx), c.sq(vy)))
		return c.div(vx, n), c.div(vy, n)
	}
	taX, taY := tau(c.raw(p.Alpha))
	tbX, tbY := tau(c.raw(p.Beta))

	e := &eclp[T]{c: c, cos: cos, sin: sin, lam: lam}
	// chi = (A^-1 tauBeta)_x, (A^-1 tauAlpha)_y
	e.chiX = be.Add(be.Mul(be.Mul(lam, cos), tbX), be.Mul(sin, tbY))
	e.chiY = be.Add(c.neg(be.Mul(be.Mul(lam, sin), taX)), be.Mul(cos, taY))
	return e
}

// a maps the ellipse to the unit circle.
func (e *eclp[T]) a(vx, vy T) (T, T) {
	be := e.c.be
	x := e.c.div(be.Sub(be.Mul(e.cos, vx), be.Mul(e.sin, vy)), e.lam)
	y := be.Add(be.Mul(e.sin, vx), be.Mul(e.cos, vy))
	return x, y
}

func (e *eclp[T]) invariant(x, y T) T {
	be, c := e.c.be, e.c
	atX, atY := e.a(x, y)
	acX, acY := e.a(e.chiX, e.chiY)
	atAc := be.Add(be.Mul(atX, acX), be.Mul(atY, acY))
	acAc := be.Add(c.sq(acX), c.sq(acY))
	atAt := be.Add(c.sq(atX), c.sq(atY))
	den := be.Sub(acAc, c.num("1"))
	disc := be.Sub(c.sq(atAc), be.Mul(den, atAt))
	return c.div(be.Add(atAc, c.sqrt(disc)), den)
}

// ECLPInvariant returns the circle radius r of the balances.
func ECLPInvariant[T any](be Backend[T], balances []*big.Int, p ECLPParams) (T, error) {
	e := newECLP(be, p)
	r := e.invariant(e.c.raw(balances[0]), e.c.raw(balances[1]))
	return r, e.c.err
}

// ECLPOutGivenIn applies the fee to amountIn, moves along the lower branch of
// the curve and returns the out amount together with the invariant.
func ECLPOutGivenIn[T any](be Backend[T], balances []*big.Int, amountIn *big.Int, tokenInIsToken0 bool, p ECLPParams, fee *big.Int) (out, invariant T, err error) {
	e := newECLP(be, p)
	c := e.c
	x, y := c.raw(balances[0]), c.raw(balances[1])
	r := e.invariant(x, y)
	offX, offY := be.Mul(r, e.chiX), be.Mul(r, e.chiY)

	amount := c.raw(amountIn)
	amount = be.Sub(amount, be.Mul(amount, c.raw(fee)))

	lamBar := be.Sub(c.num("1"), c.div(c.num("1"), c.sq(e.lam)))
	sc := be.Mul(e.sin, e.cos)

	// other = off + (-p s c lamBar - sqrt(r^2 t - p^2/lam^2)) / t
	solve := func(moved, movedOff, otherOff, trig T) T {
		pv := be.Sub(moved, movedOff)
		t := be.Sub(c.num("1"), be.Mul(lamBar, c.sq(trig)))
		root := c.sqrt(be.Sub(be.Mul(c.sq(r), t), c.div(c.sq(pv), c.sq(e.lam))))
		num := be.Sub(c.neg(be.Mul(be.Mul(pv, sc), lamBar)), root)
		return be.Add(otherOff, c.div(num, t))
	}

	if tokenInIsToken0 {
		newY := solve(be.Add(x, amount), offX, offY, e.sin)
		out = be.Sub(y, newY)
	} else {
		newX := solve(be.Add(y, amount), offY, offX, e.cos)
		out = be.Sub(x, newX)
	}
	return out, r, c.err
}
