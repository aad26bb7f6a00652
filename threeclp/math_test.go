package threeclp_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/gyro-go/internal/oracle"
	"github.com/krazyTry/gyro-go/shared"
	"github.com/krazyTry/gyro-go/threeclp"
)

func bi(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad int " + s)
	}
	return v
}

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), shared.One)
}

func randBetween(r *rand.Rand, lo, hi *big.Int) *big.Int {
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))
	v := new(big.Int).Rand(r, span)
	return v.Add(v, lo)
}

var root3AlphaB = big.NewInt(97e16)

func TestCubicTerms(t *testing.T) {
	a, mb, mc, md, err := threeclp.CalculateCubicTerms([]*big.Int{e18(100), e18(100), e18(100)}, root3AlphaB)
	require.NoError(t, err)
	require.Equal(t, "87327000000000000", a.String())
	require.Equal(t, "282270000000000000000", mb.String())
	require.Equal(t, "29100000000000000000000", mc.String())
	require.Equal(t, "1000000000000000000000000", md.String())

	_, _, _, _, err = threeclp.CalculateCubicTerms([]*big.Int{e18(1), e18(1)}, root3AlphaB)
	require.ErrorIs(t, err, shared.ErrBalancesLength)
}

func TestInvariantScenarioB(t *testing.T) {
	balances := []*big.Int{e18(100), e18(100), e18(100)}
	sol, err := threeclp.Solve(balances, root3AlphaB)
	require.NoError(t, err)
	require.Equal(t, "3333333333333333333333", sol.Invariant.String())
	require.Equal(t, threeclp.ExitConverged, sol.Exit)
	require.Equal(t, 5, sol.Iterations)

	// symmetric balances: L = x / (1 - root3Alpha)
	analytic := decimal.NewFromInt(100).DivRound(decimal.RequireFromString("0.03"), 40)
	got := decimal.NewFromBigInt(sol.Invariant, -18)
	require.True(t, analytic.Sub(got).Abs().LessThan(decimal.New(1, -10)))

	ref, err := oracle.ThreeCLPInvariant[decimal.Decimal](oracle.Shopspring{}, balances, root3AlphaB)
	require.NoError(t, err)
	require.True(t, got.LessThanOrEqual(ref))
}

func TestInvariantAsymmetric(t *testing.T) {
	balances := []*big.Int{e18(1000), e18(2000), e18(500)}
	sol, err := threeclp.Solve(balances, root3AlphaB)
	require.NoError(t, err)
	require.Equal(t, threeclp.ExitConverged, sol.Exit)
	l := sol.Invariant
	require.Equal(t, "38722190780344003724493", l.String())

	for _, be := range []struct {
		name string
		cmp  func() int
	}{
		{"shopspring", func() int {
			ref, err := oracle.ThreeCLPInvariant[decimal.Decimal](oracle.Shopspring{}, balances, root3AlphaB)
			require.NoError(t, err)
			return decimal.NewFromBigInt(l, -18).Cmp(ref)
		}},
		{"fixed100", func() int {
			ref, err := oracle.ThreeCLPInvariant[oracle.D100](oracle.Fixed{}, balances, root3AlphaB)
			require.NoError(t, err)
			return oracle.Fixed{}.FromRaw(l, 18).CmpExact(ref)
		}},
	} {
		require.LessOrEqual(t, be.cmp(), 0, be.name)
	}
}

func TestSwapsScenarioB(t *testing.T) {
	l := bi("3333333333333333333333")
	off := threeclp.VirtualOffset(l, root3AlphaB)
	require.Equal(t, "3233333333333333333333", off.String())

	out, err := threeclp.CalcOutGivenIn(e18(100), e18(100), e18(10), off)
	require.NoError(t, err)
	require.Equal(t, "9970089730807577268", out.String())

	in, err := threeclp.CalcInGivenOut(e18(100), e18(100), e18(10), off)
	require.NoError(t, err)
	require.Equal(t, "10030090270812437312", in.String())

	spot, err := threeclp.CalcSpotPrice(e18(100), e18(100), off)
	require.NoError(t, err)
	require.Equal(t, shared.One.String(), spot.String())

	_, err = threeclp.CalcOutGivenIn(e18(100), e18(100), bi("30000000000000000001"), off)
	require.ErrorIs(t, err, shared.ErrRatioLimitExceeded)
	_, err = threeclp.CalcInGivenOut(e18(100), e18(100), bi("30000000000000000001"), off)
	require.ErrorIs(t, err, shared.ErrRatioLimitExceeded)
	_, err = threeclp.CalcInGivenOut(e18(100), e18(100), e18(101), off)
	require.ErrorIs(t, err, shared.ErrAssetBoundsExceeded)
}

func TestMinBalanceRatio(t *testing.T) {
	_, err := threeclp.CalcOutGivenIn(e18(1_000_000), big.NewInt(5e18), shared.One, big.NewInt(0))
	require.ErrorIs(t, err, shared.ErrMinBalanceRatio)

	_, err = threeclp.CalcOutGivenIn(e18(1_000_000), e18(1_000), shared.One, big.NewInt(0))
	require.NoError(t, err)
}

func TestValidateParams(t *testing.T) {
	require.NoError(t, threeclp.ValidateParams(threeclp.Params{Root3Alpha: root3AlphaB}))

	for _, r := range []*big.Int{nil, big.NewInt(0), shared.One, bi("999990000000000000")} {
		err := threeclp.ValidateParams(threeclp.Params{Root3Alpha: r})
		require.ErrorIs(t, err, shared.ErrPriceBounds)
		require.True(t, shared.IsConfigurationError(err))
	}
}

func TestExitReasonString(t *testing.T) {
	require.Equal(t, "converged", threeclp.ExitConverged.String())
	require.Equal(t, "precision floor", threeclp.ExitPrecisionFloor.String())
	require.Equal(t, "max iterations", threeclp.ExitMaxIterations.String())
}

func TestSwapsNeverDecreaseInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	maxRatio := big.NewInt(100_000)
	checked := 0
	for i := 0; i < 300; i++ {
		root3Alpha := randBetween(r, big.NewInt(2e17), big.NewInt(9999e14))
		balances := []*big.Int{
			randBetween(r, big.NewInt(1e16), e18(1e8)),
			randBetween(r, big.NewInt(1e16), e18(1e8)),
			randBetween(r, big.NewInt(1e16), e18(1e8)),
		}
		lo, hi := balances[0], balances[0]
		for _, b := range balances {
			if b.Cmp(lo) < 0 {
				lo = b
			}
			if b.Cmp(hi) > 0 {
				hi = b
			}
		}
		if new(big.Int).Mul(lo, maxRatio).Cmp(hi) < 0 {
			continue
		}

		sol, err := threeclp.Solve(balances, root3Alpha)
		require.NoError(t, err)
		require.LessOrEqual(t, sol.Iterations, shared.MaxNewtonIterations)
		off := threeclp.VirtualOffset(sol.Invariant, root3Alpha)

		amountIn := randBetween(r, big.NewInt(1), new(big.Int).Div(new(big.Int).Mul(balances[0], shared.MaxInRatio), shared.One))
		out, err := threeclp.CalcOutGivenIn(balances[0], balances[1], amountIn, off)
		if err != nil {
			continue
		}
		after, err := threeclp.CalculateInvariant([]*big.Int{
			new(big.Int).Add(balances[0], amountIn),
			new(big.Int).Sub(balances[1], out),
			balances[2],
		}, root3Alpha)
		require.NoError(t, err)
		require.GreaterOrEqual(t, after.Cmp(sol.Invariant), 0, "L %s -> %s", sol.Invariant, after)
		checked++
	}
	require.Greater(t, checked, 0)
}
