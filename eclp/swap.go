package eclp

import (
	"fmt"
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/poolmath"
	"github.com/krazyTry/gyro-go/shared"
)

// VirtualOffset0 is the x offset of the ellipse center, L (A^-1 tauBeta)_x.
// r is the invariant vector; the over- or underestimate is picked per sign so
// the offset is rounded up.
func VirtualOffset0(p Params, d DerivedParams, r shared.Vector2) (*big.Int, error) {
	c := &calc{}
	v := virtualOffset0(c, p, d, r)
	return v, c.err
}

func virtualOffset0(c *calc, p Params, d DerivedParams, r shared.Vector2) *big.Int {
	termXp := c.divXp(d.TauBeta.X, d.DSq)
	var a *big.Int
	if d.TauBeta.X.Sign() > 0 {
		a = fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(r.X, p.Lambda), p.C), termXp)
	} else {
		a = fp.MulUpXpToNp(fp.MulDownMag(fp.MulDownMag(r.Y, p.Lambda), p.C), termXp)
	}
	return a.Add(a, fp.MulUpXpToNp(fp.MulUpMag(r.X, p.S), c.divXp(d.TauBeta.Y, d.DSq)))
}

// VirtualOffset1 is the y offset, L (A^-1 tauAlpha)_y, rounded up.
func VirtualOffset1(p Params, d DerivedParams, r shared.Vector2) (*big.Int, error) {
	c := &calc{}
	v := virtualOffset1(c, p, d, r)
	return v, c.err
}

func virtualOffset1(c *calc, p Params, d DerivedParams, r shared.Vector2) *big.Int {
	termXp := c.divXp(d.TauAlpha.X, d.DSq)
	var b *big.Int
	if d.TauAlpha.X.Sign() < 0 {
		b = fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(r.X, p.Lambda), p.S), neg(termXp))
	} else {
		b = fp.MulUpXpToNp(fp.MulDownMag(fp.MulDownMag(neg(r.Y), p.Lambda), p.S), termXp)
	}
	return b.Add(b, fp.MulUpXpToNp(fp.MulUpMag(r.X, p.C), c.divXp(d.TauAlpha.Y, d.DSq)))
}

// MaxBalances0 is the largest x balance on the curve, reached at price
// alpha. Rounded down.
func MaxBalances0(p Params, d DerivedParams, r shared.Vector2) (*big.Int, error) {
	c := &calc{}
	term1 := c.divXp(sub(d.TauBeta.X, d.TauAlpha.X), d.DSq)
	term2 := c.divXp(sub(d.TauBeta.Y, d.TauAlpha.Y), d.DSq)

	x := fp.MulDownXpToNp(fp.MulDownMag(fp.MulDownMag(r.Y, p.Lambda), p.C), term1)
	var t *big.Int
	if term2.Sign() > 0 {
		t = fp.MulDownMag(r.Y, p.S)
	} else {
		t = fp.MulUpMag(r.X, p.S)
	}
	x.Add(x, fp.MulDownXpToNp(t, term2))
	return x, c.err
}

// MaxBalances1 is the largest y balance on the curve, reached at price
// beta. Rounded down.
func MaxBalances1(p Params, d DerivedParams, r shared.Vector2) (*big.Int, error) {
	c := &calc{}
	term1 := c.divXp(sub(d.TauBeta.X, d.TauAlpha.X), d.DSq)
	term2 := c.divXp(sub(d.TauAlpha.Y, d.TauBeta.Y), d.DSq)

	y := fp.MulDownXpToNp(fp.MulDownMag(fp.MulDownMag(r.Y, p.Lambda), p.S), term1)
	var t *big.Int
	if term2.Sign() > 0 {
		t = fp.MulDownMag(r.Y, p.C)
	} else {
		t = fp.MulUpMag(r.X, p.C)
	}
	y.Add(y, fp.MulDownXpToNp(t, term2))
	return y, c.err
}

// CheckAssetBounds rejects a new balance of asset i above its maximum on the
// curve or above the global balance cap.
func CheckAssetBounds(p Params, d DerivedParams, r shared.Vector2, newBalance *big.Int, assetIndex int) error {
	var (
		bound *big.Int
		err   error
	)
	if assetIndex == 0 {
		bound, err = MaxBalances0(p, d, r)
	} else {
		bound, err = MaxBalances1(p, d, r)
	}
	if err != nil {
		return err
	}
	if newBalance.Cmp(maxBalances) > 0 || newBalance.Cmp(bound) > 0 {
		return fmt.Errorf("eclp: asset %d: %w", assetIndex, shared.ErrAssetBoundsExceeded)
	}
	return nil
}

// CalcXpXpDivLambdaLambda is the c-term of the swap quadratic,
// (x')^2/lambda^2 with x' the balance relative to the ellipse center,
// expanded and rounded up.
func CalcXpXpDivLambdaLambda(x *big.Int, r shared.Vector2, lambda, s, c *big.Int, tauBeta shared.Vector2, dSq *big.Int) (*big.Int, error) {
	k := &calc{}
	v := calcXpXpDivLambdaLambda(k, x, r, lambda, s, c, tauBeta, dSq)
	return v, k.err
}

func calcXpXpDivLambdaLambda(k *calc, x *big.Int, r shared.Vector2, lambda, s, c *big.Int, tauBeta shared.Vector2, dSq *big.Int) *big.Int {
	sqVarsX := fp.MulXp(dSq, dSq)
	sqVarsY := fp.MulUpMag(r.X, r.X)

	// 2 r^2 s c tau_x tau_y / dSq^2
	termXp := k.divXp(fp.MulXp(tauBeta.X, tauBeta.Y), sqVarsX)
	var qa *big.Int
	if termXp.Sign() > 0 {
		qa = fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(sqVarsY, times(s, 2)), c), plus(termXp, 7))
	} else {
		qa = fp.MulUpXpToNp(fp.MulDownMag(fp.MulDownMag(fp.MulDownMag(r.Y, r.Y), times(s, 2)), c), termXp)
	}

	// -2 r x c tau_x / dSq
	var qb *big.Int
	if tauBeta.X.Sign() < 0 {
		qb = fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(r.X, x), times(c, 2)), plus(neg(k.divXp(tauBeta.X, dSq)), 3))
	} else {
		qb = fp.MulUpXpToNp(fp.MulDownMag(fp.MulDownMag(neg(r.Y), x), times(c, 2)), k.divXp(tauBeta.X, dSq))
	}
	qa.Add(qa, qb)

	// r^2 s^2 tau_y^2 / dSq^2
	termXp = plus(k.divXp(fp.MulXp(tauBeta.Y, tauBeta.Y), sqVarsX), 7)
	qb = fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(sqVarsY, s), s), termXp)

	// -2 r x s tau_y / dSq
	qc := fp.MulUpXpToNp(fp.MulDownMag(fp.MulDownMag(neg(r.Y), x), times(s, 2)), k.divXp(tauBeta.Y, dSq))

	qb = add(qb, qc, fp.MulUpMag(x, x))
	if qb.Sign() > 0 {
		qb = k.divUpMag(qb, lambda)
	} else {
		qb = k.divDownMag(qb, lambda)
	}
	qa.Add(qa, qb)
	if qa.Sign() > 0 {
		qa = k.divUpMag(qa, lambda)
	} else {
		qa = k.divDownMag(qa, lambda)
	}

	// r^2 c^2 tau_x^2 / dSq^2
	termXp = plus(k.divXp(fp.MulXp(tauBeta.X, tauBeta.X), sqVarsX), 7)
	val := fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(sqVarsY, c), c), termXp)
	return val.Add(val, qa)
}

// SolveQuadraticSwap returns the y balance for a given x on the lower branch
// of the ellipse. ab are the virtual offsets and tauBeta the tau vector in
// the orientation of the call; CalcXGivenY reuses it with roles swapped.
func SolveQuadraticSwap(lambda, x, s, c *big.Int, r, ab, tauBeta shared.Vector2, dSq *big.Int) (*big.Int, error) {
	k := &calc{}
	v := solveQuadraticSwap(k, lambda, x, s, c, r, ab, tauBeta, dSq)
	return v, k.err
}

func solveQuadraticSwap(k *calc, lambda, x, s, c *big.Int, r, ab, tauBeta shared.Vector2, dSq *big.Int) *big.Int {
	// 1 - 1/lambda^2 rounded down and up
	lamBarX := sub(shared.OneXp, k.divDownMag(k.divDownMag(shared.OneXp, lambda), lambda))
	lamBarY := sub(shared.OneXp, k.divUpMag(k.divUpMag(shared.OneXp, lambda), lambda))

	xp := sub(x, ab.X)
	var qb *big.Int
	if xp.Sign() > 0 {
		qb = fp.MulUpXpToNp(fp.MulDownMag(fp.MulDownMag(neg(xp), s), c), k.divXp(lamBarY, dSq))
	} else {
		qb = fp.MulUpXpToNp(fp.MulUpMag(fp.MulUpMag(neg(xp), s), c), plus(k.divXp(lamBarX, dSq), 1))
	}

	// 1 - lamBar s^2, as an over- and underestimate
	sTermX := sub(shared.OneXp, k.divXp(fp.MulDownMag(fp.MulDownMag(lamBarY, s), s), dSq))
	sTermY := k.divXp(fp.MulUpMag(fp.MulUpMag(lamBarX, s), s), plus(dSq, 1))
	sTermY = sub(shared.OneXp, plus(sTermY, 1))

	qc := neg(calcXpXpDivLambdaLambda(k, x, r, lambda, s, c, tauBeta, dSq))
	qc.Add(qc, fp.MulDownXpToNp(fp.MulDownMag(r.Y, r.Y), sTermY))
	if qc.Sign() > 0 {
		qc = k.sqrt(qc)
	} else {
		qc = new(big.Int)
	}

	diff := sub(qb, qc)
	var qa *big.Int
	if diff.Sign() > 0 {
		qa = fp.MulUpXpToNp(diff, plus(k.divXp(shared.OneXp, sTermY), 1))
	} else {
		qa = fp.MulUpXpToNp(diff, k.divXp(shared.OneXp, sTermX))
	}
	return qa.Add(qa, ab.Y)
}

func offsets(k *calc, p Params, d DerivedParams, r shared.Vector2) (a, b *big.Int) {
	return virtualOffset0(k, p, d, r), virtualOffset1(k, p, d, r)
}

// CalcYGivenX returns the y balance on the curve for balance x.
func CalcYGivenX(x *big.Int, p Params, d DerivedParams, r shared.Vector2) (*big.Int, error) {
	k := &calc{}
	a, b := offsets(k, p, d, r)
	y := solveQuadraticSwap(k, p.Lambda, x, p.S, p.C, r, shared.Vector2{X: a, Y: b}, d.TauBeta, d.DSq)
	return y, k.err
}

// CalcXGivenY mirrors CalcYGivenX by swapping the roles of c and s and
// reflecting tauAlpha.
func CalcXGivenY(y *big.Int, p Params, d DerivedParams, r shared.Vector2) (*big.Int, error) {
	k := &calc{}
	a, b := offsets(k, p, d, r)
	tau := shared.Vector2{X: neg(d.TauAlpha.X), Y: d.TauAlpha.Y}
	x := solveQuadraticSwap(k, p.Lambda, y, p.C, p.S, r, shared.Vector2{X: b, Y: a}, tau, d.DSq)
	return x, k.err
}

func direction(tokenInIsToken0 bool) (ixIn, ixOut int, calcGiven func(*big.Int, Params, DerivedParams, shared.Vector2) (*big.Int, error)) {
	if tokenInIsToken0 {
		return 0, 1, CalcYGivenX
	}
	return 1, 0, CalcXGivenY
}

// CalcOutGivenIn deducts swapFee from amountIn and returns the amount of the
// other asset paid out. r is InvariantVector of the current balances.
func CalcOutGivenIn(balances []*big.Int, amountIn *big.Int, tokenInIsToken0 bool, p Params, d DerivedParams, r shared.Vector2, swapFee *big.Int) (*big.Int, error) {
	if len(balances) != 2 {
		return nil, shared.ErrBalancesLength
	}
	if err := fp.CheckAmounts(append([]*big.Int{amountIn}, balances...)); err != nil {
		return nil, err
	}
	if amountIn.Sign() == 0 {
		return new(big.Int), nil
	}
	ixIn, ixOut, calcGiven := direction(tokenInIsToken0)
	if amountIn.Cmp(fp.MulDown(balances[ixIn], shared.MaxInRatio)) > 0 {
		return nil, fmt.Errorf("eclp: amount in: %w", shared.ErrRatioLimitExceeded)
	}

	net, _, err := poolmath.SubtractSwapFee(amountIn, swapFee)
	if err != nil {
		return nil, err
	}
	balInNew := add(balances[ixIn], net)
	if err := CheckAssetBounds(p, d, r, balInNew, ixIn); err != nil {
		return nil, err
	}
	balOutNew, err := calcGiven(balInNew, p, d, r)
	if err != nil {
		return nil, err
	}
	if balOutNew.Sign() < 0 {
		return nil, fmt.Errorf("eclp: amount out: %w", shared.ErrAssetBoundsExceeded)
	}

	amountOut := sub(balances[ixOut], balOutNew)
	if amountOut.Sign() < 0 {
		amountOut.SetInt64(0)
	}
	if amountOut.Cmp(fp.MulDown(balances[ixOut], shared.MaxOutRatio)) > 0 {
		return nil, fmt.Errorf("eclp: amount out: %w", shared.ErrRatioLimitExceeded)
	}
	return amountOut, nil
}

// CalcInGivenOut returns the amount of the other asset, including swapFee,
// that must be paid in to receive amountOut.
func CalcInGivenOut(balances []*big.Int, amountOut *big.Int, tokenInIsToken0 bool, p Params, d DerivedParams, r shared.Vector2, swapFee *big.Int) (*big.Int, error) {
	if len(balances) != 2 {
		return nil, shared.ErrBalancesLength
	}
	if err := fp.CheckAmounts(append([]*big.Int{amountOut}, balances...)); err != nil {
		return nil, err
	}
	if amountOut.Sign() == 0 {
		return new(big.Int), nil
	}
	ixIn, ixOut, _ := direction(tokenInIsToken0)
	// the in balance follows from the out balance, so the solver runs in the
	// opposite direction
	_, _, calcGiven := direction(!tokenInIsToken0)

	if amountOut.Cmp(balances[ixOut]) > 0 {
		return nil, fmt.Errorf("eclp: amount out: %w", shared.ErrAssetBoundsExceeded)
	}
	if amountOut.Cmp(fp.MulDown(balances[ixOut], shared.MaxOutRatio)) > 0 {
		return nil, fmt.Errorf("eclp: amount out: %w", shared.ErrRatioLimitExceeded)
	}

	balOutNew := sub(balances[ixOut], amountOut)
	balInNew, err := calcGiven(balOutNew, p, d, r)
	if err != nil {
		return nil, err
	}
	if err := CheckAssetBounds(p, d, r, balInNew, ixIn); err != nil {
		return nil, err
	}

	amountIn := sub(balInNew, balances[ixIn])
	if amountIn.Sign() < 0 {
		amountIn.SetInt64(0)
	}
	gross, _, err := poolmath.AddSwapFee(amountIn, swapFee)
	if err != nil {
		return nil, err
	}
	if gross.Cmp(fp.MulDown(balances[ixIn], shared.MaxInRatio)) > 0 {
		return nil, fmt.Errorf("eclp: amount in: %w", shared.ErrRatioLimitExceeded)
	}
	return gross, nil
}
