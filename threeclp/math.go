package threeclp

import (
	"fmt"
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

// Newton is seeded at seedMultiplier times the local minimum of the cubic.
// The factor is empirical and the seed may land on either side of the root.
var (
	seedMultiplier = big.NewInt(15e17)
	three          = big.NewInt(3)
	sqrtTolerance  = big.NewInt(shared.SqrtTolerance)
)

type Params struct {
	Root3Alpha *big.Int
}

// ValidateParams requires 0 < root3Alpha and alpha = root3Alpha^3 at least
// 1e-4 below 1.
func ValidateParams(p Params) error {
	if p.Root3Alpha == nil || p.Root3Alpha.Sign() <= 0 || p.Root3Alpha.Cmp(shared.One) >= 0 {
		return shared.Configuration("root3Alpha", shared.ErrPriceBounds)
	}
	alpha := fp.MulDown(fp.MulDown(p.Root3Alpha, p.Root3Alpha), p.Root3Alpha)
	if new(big.Int).Sub(shared.One, alpha).Cmp(shared.MinPriceSeparation) < 0 {
		return shared.Configuration("root3Alpha", fmt.Errorf("bounds closer than 1e-4: %w", shared.ErrPriceBounds))
	}
	return nil
}

// CalculateCubicTerms returns a, -b, -c and -d of a*L^3 + b*L^2 + c*L + d = 0
// in 18 decimal fixed point.
func CalculateCubicTerms(balances []*big.Int, root3Alpha *big.Int) (a, mb, mc, md *big.Int, err error) {
	if len(balances) != 3 {
		return nil, nil, nil, nil, shared.ErrBalancesLength
	}
	x, y, z := balances[0], balances[1], balances[2]

	alpha23 := fp.MulDown(root3Alpha, root3Alpha)
	alpha := fp.MulDown(alpha23, root3Alpha)
	a = new(big.Int).Sub(shared.One, alpha)

	sum := new(big.Int).Add(x, y)
	sum.Add(sum, z)
	mb = fp.MulDown(sum, alpha23)

	xy := fp.MulDown(x, y)
	pairs := new(big.Int).Add(xy, fp.MulDown(y, z))
	pairs.Add(pairs, fp.MulDown(z, x))
	mc = fp.MulDown(pairs, root3Alpha)

	md = fp.MulDown(xy, z)
	return a, mb, mc, md, nil
}

// cubic holds the cubic with integer coefficients, scaled so that it is
// exact in raw balance units: with S = 1e18 and R = root3Alpha,
//
//	G(L) = (S^3 - R^3) L^3 - S R^2 (x+y+z) L^2 - S^2 R (xy+yz+zx) L - S^3 xyz.
//
// G has the same positive root as the fixed point cubic without the
// rounding of its coefficients.
type cubic struct {
	a, b, c, d *big.Int
}

func newCubic(balances []*big.Int, root3Alpha *big.Int) cubic {
	x, y, z := balances[0], balances[1], balances[2]
	s := shared.One
	s2 := new(big.Int).Mul(s, s)
	s3 := new(big.Int).Mul(s2, s)
	r2 := new(big.Int).Mul(root3Alpha, root3Alpha)
	r3 := new(big.Int).Mul(r2, root3Alpha)

	sum := new(big.Int).Add(x, y)
	sum.Add(sum, z)
	pairs := new(big.Int).Mul(x, y)
	pairs.Add(pairs, new(big.Int).Mul(y, z))
	pairs.Add(pairs, new(big.Int).Mul(z, x))
	product := new(big.Int).Mul(x, y)
	product.Mul(product, z)

	cu := cubic{
		a: new(big.Int).Sub(s3, r3),
		b: new(big.Int).Mul(s, r2),
		c: new(big.Int).Mul(s2, root3Alpha),
		d: product.Mul(product, s3),
	}
	cu.b.Mul(cu.b, sum).Neg(cu.b)
	cu.c.Mul(cu.c, pairs).Neg(cu.c)
	cu.d.Neg(cu.d)
	return cu
}

func (cu cubic) value(l *big.Int) *big.Int {
	// Horner: ((a l + b) l + c) l + d
	v := new(big.Int).Mul(cu.a, l)
	v.Add(v, cu.b).Mul(v, l)
	v.Add(v, cu.c).Mul(v, l)
	return v.Add(v, cu.d)
}

func (cu cubic) derivative(l *big.Int) *big.Int {
	v := new(big.Int).Mul(cu.a, three)
	v.Mul(v, l)
	v.Add(v, new(big.Int).Lsh(cu.b, 1)).Mul(v, l)
	return v.Add(v, cu.c)
}

// ceilQuo divides rounding toward positive infinity.
func ceilQuo(n, d *big.Int) *big.Int {
	q, m := new(big.Int).DivMod(n, d, new(big.Int))
	if m.Sign() != 0 && d.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

type ExitReason uint8

const (
	// ExitConverged: the implied balances match the actual ones to one raw
	// unit, or stopped moving.
	ExitConverged ExitReason = iota
	// ExitPrecisionFloor: the Newton step reached zero or one raw unit, or
	// the iterate crossed the root.
	ExitPrecisionFloor
	ExitMaxIterations
)

func (r ExitReason) String() string {
	switch r {
	case ExitConverged:
		return "converged"
	case ExitPrecisionFloor:
		return "precision floor"
	case ExitMaxIterations:
		return "max iterations"
	}
	return "unknown"
}

type Solution struct {
	Invariant  *big.Int
	Iterations int
	Exit       ExitReason
}

// CalculateInvariant returns the largest raw L whose cubic residual is not
// positive, so L never exceeds the true root.
func CalculateInvariant(balances []*big.Int, root3Alpha *big.Int) (*big.Int, error) {
	sol, err := Solve(balances, root3Alpha)
	if err != nil {
		return nil, err
	}
	return sol.Invariant, nil
}

// Solve runs the bounded Newton iteration and reports how it stopped.
func Solve(balances []*big.Int, root3Alpha *big.Int) (Solution, error) {
	if err := fp.CheckAmounts(balances); err != nil {
		return Solution{}, err
	}
	a, mb, mc, _, err := CalculateCubicTerms(balances, root3Alpha)
	if err != nil {
		return Solution{}, err
	}
	if a.Sign() <= 0 {
		return Solution{}, shared.Configuration("root3Alpha", shared.ErrPriceBounds)
	}
	l, err := startingPoint(a, mb, mc)
	if err != nil {
		return Solution{}, err
	}
	if l.Sign() == 0 {
		return Solution{Invariant: l, Exit: ExitPrecisionFloor}, nil
	}

	cu := newCubic(balances, root3Alpha)
	sol := Solution{Exit: ExitMaxIterations}
	var prev []*big.Int
	for i := 0; i < shared.MaxNewtonIterations; i++ {
		sol.Iterations = i + 1
		deltas := impliedDeltas(balances, l, root3Alpha)
		if deltasConverged(prev, deltas) {
			sol.Exit = ExitConverged
			break
		}
		prev = deltas

		f := cu.value(l)
		if i > 0 && f.Sign() < 0 {
			sol.Exit = ExitPrecisionFloor
			break
		}
		df := cu.derivative(l)
		if df.Sign() <= 0 {
			sol.Exit = ExitPrecisionFloor
			break
		}
		step := ceilQuo(f, df)
		if step.Sign() == 0 {
			sol.Exit = ExitPrecisionFloor
			break
		}
		l.Sub(l, step)
		if step.CmpAbs(big.NewInt(1)) <= 0 {
			sol.Exit = ExitPrecisionFloor
			break
		}
	}

	// Step down to the largest L with G(L) <= 0. Each step is at least one
	// raw unit and Newton from above does not overshoot past the root by
	// more than one unit.
	for i := 0; i < shared.MaxNewtonIterations; i++ {
		f := cu.value(l)
		if f.Sign() <= 0 {
			break
		}
		step := big.NewInt(1)
		if df := cu.derivative(l); df.Sign() > 0 {
			if s := ceilQuo(f, df); s.Cmp(step) > 0 {
				step = s
			}
		}
		l.Sub(l, step)
	}
	if l.Sign() < 0 {
		l.SetInt64(0)
	}
	sol.Invariant = l
	return sol, nil
}

// startingPoint returns 1.5 times the larger critical point of the cubic,
// -b/(3a) + sqrt(b^2 - 3ac)/(3a).
func startingPoint(a, mb, mc *big.Int) (*big.Int, error) {
	radicand := fp.MulUp(mb, mb)
	radicand.Add(radicand, fp.MulUp(a, new(big.Int).Mul(mc, three)))
	root, err := fp.Sqrt(radicand, sqrtTolerance)
	if err != nil {
		return nil, err
	}
	a3 := new(big.Int).Mul(a, three)
	lmin, err := fp.DivUp(mb, a3)
	if err != nil {
		return nil, err
	}
	rootTerm, err := fp.DivUp(root, a3)
	if err != nil {
		return nil, err
	}
	lmin.Add(lmin, rootTerm)
	return fp.MulUp(lmin, seedMultiplier), nil
}

// impliedDeltas reconstructs each balance from the other two and the
// candidate L, L^3 / ((j+off)(k+off)) - off, and returns its difference to
// the actual balance. nil when a denominator vanishes.
func impliedDeltas(balances []*big.Int, l, root3Alpha *big.Int) []*big.Int {
	off := fp.MulDown(l, root3Alpha)
	virtual := make([]*big.Int, 3)
	for i, b := range balances {
		virtual[i] = new(big.Int).Add(b, off)
	}
	cube := fp.MulDown(fp.MulDown(l, l), l)
	deltas := make([]*big.Int, 3)
	for i := range balances {
		j, k := (i+1)%3, (i+2)%3
		implied, err := fp.DivDown(cube, fp.MulUp(virtual[j], virtual[k]))
		if err != nil {
			return nil
		}
		implied.Sub(implied, off)
		deltas[i] = implied.Sub(implied, balances[i])
	}
	return deltas
}

// deltasConverged reports whether every implied balance is within one raw
// unit of the actual balance, or has moved by less than one raw unit since
// the previous iterate.
func deltasConverged(prev, cur []*big.Int) bool {
	if cur == nil {
		return false
	}
	one := big.NewInt(1)
	settled := true
	for _, d := range cur {
		if d.CmpAbs(one) > 0 {
			settled = false
			break
		}
	}
	if settled || prev == nil {
		return settled
	}
	diff := new(big.Int)
	for i := range cur {
		if diff.Sub(cur[i], prev[i]).CmpAbs(one) >= 0 {
			return false
		}
	}
	return true
}

// VirtualOffset is the shared offset L * root3Alpha of every asset.
func VirtualOffset(invariant, root3Alpha *big.Int) *big.Int {
	return fp.MulDown(invariant, root3Alpha)
}

func CalcOutGivenIn(balanceIn, balanceOut, amountIn, virtualOffset *big.Int) (*big.Int, error) {
	if err := fp.CheckAmounts([]*big.Int{balanceIn, balanceOut, amountIn, virtualOffset}); err != nil {
		return nil, err
	}
	if amountIn.Cmp(fp.MulDown(balanceIn, shared.MaxInRatio)) > 0 {
		return nil, fmt.Errorf("threeclp: amount in: %w", shared.ErrRatioLimitExceeded)
	}

	virtIn := new(big.Int).Add(balanceIn, virtualOffset)
	virtOut := new(big.Int).Add(balanceOut, virtualOffset)
	newVirtOut, err := fp.DivUp(fp.MulUp(virtIn, virtOut), new(big.Int).Add(virtIn, amountIn))
	if err != nil {
		return nil, err
	}
	amountOut := virtOut.Sub(virtOut, newVirtOut)
	if amountOut.Sign() < 0 {
		amountOut.SetInt64(0)
	}

	if amountOut.Cmp(balanceOut) > 0 {
		return nil, fmt.Errorf("threeclp: amount out: %w", shared.ErrAssetBoundsExceeded)
	}
	if amountOut.Cmp(fp.MulDown(balanceOut, shared.MaxOutRatio)) > 0 {
		return nil, fmt.Errorf("threeclp: amount out: %w", shared.ErrRatioLimitExceeded)
	}
	if err := checkMinBalanceRatio(new(big.Int).Add(balanceIn, amountIn), new(big.Int).Sub(balanceOut, amountOut)); err != nil {
		return nil, err
	}
	return amountOut, nil
}

func CalcInGivenOut(balanceIn, balanceOut, amountOut, virtualOffset *big.Int) (*big.Int, error) {
	if err := fp.CheckAmounts([]*big.Int{balanceIn, balanceOut, amountOut, virtualOffset}); err != nil {
		return nil, err
	}
	if amountOut.Cmp(balanceOut) > 0 {
		return nil, fmt.Errorf("threeclp: amount out: %w", shared.ErrAssetBoundsExceeded)
	}
	if amountOut.Cmp(fp.MulDown(balanceOut, shared.MaxOutRatio)) > 0 {
		return nil, fmt.Errorf("threeclp: amount out: %w", shared.ErrRatioLimitExceeded)
	}

	virtIn := new(big.Int).Add(balanceIn, virtualOffset)
	virtOut := new(big.Int).Add(balanceOut, virtualOffset)
	newVirtIn, err := fp.DivUp(fp.MulUp(virtIn, virtOut), new(big.Int).Sub(virtOut, amountOut))
	if err != nil {
		return nil, err
	}
	amountIn := newVirtIn.Sub(newVirtIn, virtIn)

	if amountIn.Cmp(fp.MulDown(balanceIn, shared.MaxInRatio)) > 0 {
		return nil, fmt.Errorf("threeclp: amount in: %w", shared.ErrRatioLimitExceeded)
	}
	if err := checkMinBalanceRatio(new(big.Int).Add(balanceIn, amountIn), new(big.Int).Sub(balanceOut, amountOut)); err != nil {
		return nil, err
	}
	return amountIn, nil
}

// checkMinBalanceRatio requires the smaller of the two moved balances to be
// at least 1e-5 of the larger one.
func checkMinBalanceRatio(a, b *big.Int) error {
	lo, hi := a, b
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	if hi.Sign() == 0 {
		return nil
	}
	ratio, err := fp.DivDown(lo, hi)
	if err != nil {
		return err
	}
	if ratio.Cmp(shared.MinBalanceRatio) < 0 {
		return fmt.Errorf("threeclp: %w", shared.ErrMinBalanceRatio)
	}
	return nil
}

// CalcSpotPrice is the marginal price of the in asset quoted in the out
// asset.
func CalcSpotPrice(balanceIn, balanceOut, virtualOffset *big.Int) (*big.Int, error) {
	return fp.DivDown(new(big.Int).Add(balanceOut, virtualOffset), new(big.Int).Add(balanceIn, virtualOffset))
}
