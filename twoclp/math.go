package twoclp

import (
	"fmt"
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

var (
	onePlusTwo    = new(big.Int).Add(shared.One, big.NewInt(2))
	oneMinusOne   = new(big.Int).Sub(shared.One, big.NewInt(1))
	four          = big.NewInt(4e18)
	sqrtTolerance = big.NewInt(shared.SqrtTolerance)
)

type Params struct {
	SqrtAlpha *big.Int
	SqrtBeta  *big.Int
}

// ValidateParams rejects inverted or insufficiently separated price bounds.
func ValidateParams(p Params) error {
	if p.SqrtAlpha == nil || p.SqrtBeta == nil || p.SqrtAlpha.Sign() <= 0 {
		return shared.Configuration("sqrtAlpha", shared.ErrPriceBounds)
	}
	if p.SqrtAlpha.Cmp(p.SqrtBeta) >= 0 {
		return shared.Configuration("sqrtBeta", shared.ErrPriceBounds)
	}
	alpha := fp.MulDown(p.SqrtAlpha, p.SqrtAlpha)
	beta := fp.MulDown(p.SqrtBeta, p.SqrtBeta)
	if new(big.Int).Sub(beta, alpha).Cmp(shared.MinPriceSeparation) < 0 {
		return shared.Configuration("sqrtBeta", fmt.Errorf("bounds closer than 1e-4: %w", shared.ErrPriceBounds))
	}
	return nil
}

// CalculateQuadraticTerms returns a, -b, b^2 and -c of the invariant
// equation a*L^2 + b*L + c = 0. b^2 is computed in expanded form.
func CalculateQuadraticTerms(balances []*big.Int, sqrtAlpha, sqrtBeta *big.Int) (a, mb, bSquare, mc *big.Int, err error) {
	if len(balances) != 2 {
		return nil, nil, nil, nil, shared.ErrBalancesLength
	}
	x, y := balances[0], balances[1]

	ratio, err := fp.DivDown(sqrtAlpha, sqrtBeta)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	a = new(big.Int).Sub(shared.One, ratio)

	bterm0, err := fp.DivDown(y, sqrtBeta)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	mb = new(big.Int).Add(bterm0, fp.MulDown(x, sqrtAlpha))
	mc = fp.MulDown(x, y)

	// b^2 = x^2 alpha + 2 x y sqrt(alpha)/sqrt(beta) + y^2 / beta
	bSquare = fp.MulDown(fp.MulDown(fp.MulDown(x, x), sqrtAlpha), sqrtAlpha)
	bSq2, err := fp.DivDown(fp.MulDown(fp.MulDown(mc, shared.Two), sqrtAlpha), sqrtBeta)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	bSq3, err := fp.DivDown(fp.MulDown(y, y), fp.MulUp(sqrtBeta, sqrtBeta))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	bSquare.Add(bSquare, bSq2)
	bSquare.Add(bSquare, bSq3)
	return a, mb, bSquare, mc, nil
}

// CalculateQuadratic solves for the positive root. Signs of the radicand and
// numerator cancel for these coefficients, so both are sums.
func CalculateQuadratic(a, mb, bSquare, mc *big.Int) (*big.Int, error) {
	denominator := fp.MulUp(a, shared.Two)
	addTerm := fp.MulDown(fp.MulDown(mc, four), a)
	radicand := new(big.Int).Add(bSquare, addTerm)
	sqResult, err := fp.Sqrt(radicand, sqrtTolerance)
	if err != nil {
		return nil, err
	}
	numerator := sqResult.Add(sqResult, mb)
	return fp.DivDown(numerator, denominator)
}

// CalculateInvariant returns L rounded so that it never exceeds the true root.
func CalculateInvariant(balances []*big.Int, sqrtAlpha, sqrtBeta *big.Int) (*big.Int, error) {
	if err := fp.CheckAmounts(balances); err != nil {
		return nil, err
	}
	a, mb, bSquare, mc, err := CalculateQuadraticTerms(balances, sqrtAlpha, sqrtBeta)
	if err != nil {
		return nil, err
	}
	return CalculateQuadratic(a, mb, bSquare, mc)
}

// VirtualParam0 is the offset of asset 0, L/sqrt(beta), rounded up.
func VirtualParam0(invariant, sqrtBeta *big.Int) (*big.Int, error) {
	return fp.DivUp(invariant, sqrtBeta)
}

// VirtualParam1 is the offset of asset 1, L*sqrt(alpha), rounded down.
func VirtualParam1(invariant, sqrtAlpha *big.Int) *big.Int {
	return fp.MulDown(invariant, sqrtAlpha)
}

// VirtualParams returns the offsets ordered as (in, out) for a swap.
func VirtualParams(invariant *big.Int, p Params, tokenInIsToken0 bool) (in, out *big.Int, err error) {
	a, err := VirtualParam0(invariant, p.SqrtBeta)
	if err != nil {
		return nil, nil, err
	}
	b := VirtualParam1(invariant, p.SqrtAlpha)
	if tokenInIsToken0 {
		return a, b, nil
	}
	return b, a, nil
}

// The in offset is nudged up and the out offset down so rounding errors in
// the offsets favour the pool.
func virtualBalances(balanceIn, balanceOut, virtualParamIn, virtualParamOut *big.Int) (virtInOver, virtOutUnder *big.Int) {
	virtInOver = new(big.Int).Add(balanceIn, fp.MulUp(virtualParamIn, onePlusTwo))
	virtOutUnder = new(big.Int).Add(balanceOut, fp.MulDown(virtualParamOut, oneMinusOne))
	return virtInOver, virtOutUnder
}

func CalcOutGivenIn(balanceIn, balanceOut, amountIn, virtualParamIn, virtualParamOut *big.Int) (*big.Int, error) {
	if err := fp.CheckAmounts([]*big.Int{balanceIn, balanceOut, amountIn}); err != nil {
		return nil, err
	}
	if amountIn.Cmp(fp.MulDown(balanceIn, shared.MaxInRatio)) > 0 {
		return nil, fmt.Errorf("twoclp: amount in: %w", shared.ErrRatioLimitExceeded)
	}

	virtInOver, virtOutUnder := virtualBalances(balanceIn, balanceOut, virtualParamIn, virtualParamOut)
	amountOut, err := fp.DivDown(fp.MulDown(virtOutUnder, amountIn), new(big.Int).Add(virtInOver, amountIn))
	if err != nil {
		return nil, err
	}

	if amountOut.Cmp(balanceOut) > 0 {
		return nil, fmt.Errorf("twoclp: amount out: %w", shared.ErrAssetBoundsExceeded)
	}
	if amountOut.Cmp(fp.MulDown(balanceOut, shared.MaxOutRatio)) > 0 {
		return nil, fmt.Errorf("twoclp: amount out: %w", shared.ErrRatioLimitExceeded)
	}
	return amountOut, nil
}

func CalcInGivenOut(balanceIn, balanceOut, amountOut, virtualParamIn, virtualParamOut *big.Int) (*big.Int, error) {
	if err := fp.CheckAmounts([]*big.Int{balanceIn, balanceOut, amountOut}); err != nil {
		return nil, err
	}
	if amountOut.Cmp(balanceOut) > 0 {
		return nil, fmt.Errorf("twoclp: amount out: %w", shared.ErrAssetBoundsExceeded)
	}
	if amountOut.Cmp(fp.MulDown(balanceOut, shared.MaxOutRatio)) > 0 {
		return nil, fmt.Errorf("twoclp: amount out: %w", shared.ErrRatioLimitExceeded)
	}

	virtInOver, virtOutUnder := virtualBalances(balanceIn, balanceOut, virtualParamIn, virtualParamOut)
	amountIn, err := fp.DivUp(fp.MulUp(virtInOver, amountOut), new(big.Int).Sub(virtOutUnder, amountOut))
	if err != nil {
		return nil, err
	}

	if amountIn.Cmp(fp.MulDown(balanceIn, shared.MaxInRatio)) > 0 {
		return nil, fmt.Errorf("twoclp: amount in: %w", shared.ErrRatioLimitExceeded)
	}
	return amountIn, nil
}

// CalcSpotPrice0in1 is the marginal price of asset 0 quoted in asset 1.
func CalcSpotPrice0in1(balances []*big.Int, invariant *big.Int, p Params) (*big.Int, error) {
	if len(balances) != 2 {
		return nil, shared.ErrBalancesLength
	}
	a, err := VirtualParam0(invariant, p.SqrtBeta)
	if err != nil {
		return nil, err
	}
	b := VirtualParam1(invariant, p.SqrtAlpha)
	return fp.DivDown(new(big.Int).Add(balances[1], b), new(big.Int).Add(balances[0], a))
}
