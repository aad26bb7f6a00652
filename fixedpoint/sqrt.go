package fixedpoint

import (
	"math/big"

	"github.com/krazyTry/gyro-go/shared"
)

const sqrtIterations = 7

// Initial guesses for inputs below 1, indexed by the power of ten bounding
// the raw input from above. Values are sqrt(10^-k) scaled to 18 decimals.
var sqrtGuessTable = []struct {
	bound int64
	guess string
}{
	{1e1, "3162277660"},
	{1e2, "10000000000"},
	{1e3, "31622776601"},
	{1e4, "100000000000"},
	{1e5, "316227766016"},
	{1e6, "1000000000000"},
	{1e7, "3162277660168"},
	{1e8, "10000000000000"},
	{1e9, "31622776601683"},
	{1e10, "100000000000000"},
	{1e11, "316227766016837"},
	{1e12, "1000000000000000"},
	{1e13, "3162277660168379"},
	{1e14, "10000000000000000"},
	{1e15, "31622776601683793"},
	{1e16, "100000000000000000"},
	{1e17, "316227766016837933"},
}

// Sqrt returns the 18 decimal square root of x using a fixed number of
// Newton steps from a tabulated starting point. The result r satisfies
// |r*r - x| <= r*tolerance (all 18 decimal), so the relative error of r is at
// most tolerance/2 in units of 1e-18. A result outside that band is an
// ArithmeticError rather than a silently inaccurate value.
func Sqrt(x *big.Int, tolerance *big.Int) (*big.Int, error) {
	if x.Sign() < 0 {
		return nil, shared.Arithmetic("sqrt", shared.ErrNegativeSqrt)
	}
	if x.Sign() == 0 {
		return big.NewInt(0), nil
	}

	guess := initialGuess(x)
	inflated := new(big.Int).Mul(x, shared.One)
	q := new(big.Int)
	for i := 0; i < sqrtIterations; i++ {
		q.Quo(inflated, guess)
		guess.Add(guess, q)
		guess.Rsh(guess, 1)
	}

	squared := MulDown(guess, guess)
	slack := MulUp(guess, tolerance)
	upper := new(big.Int).Add(x, slack)
	lower := new(big.Int).Sub(x, slack)
	if squared.Cmp(upper) > 0 || squared.Cmp(lower) < 0 {
		return nil, shared.Arithmetic("sqrt", shared.ErrSqrtTolerance)
	}
	return guess, nil
}

func initialGuess(x *big.Int) *big.Int {
	if x.Cmp(shared.One) >= 0 {
		whole := new(big.Int).Quo(x, shared.One)
		guess := new(big.Int).Lsh(big.NewInt(1), intLog2Halved(whole))
		return guess.Mul(guess, shared.One)
	}
	for _, entry := range sqrtGuessTable {
		if x.Cmp(big.NewInt(entry.bound)) <= 0 {
			guess, _ := new(big.Int).SetString(entry.guess, 10)
			return guess
		}
	}
	return new(big.Int).Set(x)
}

// intLog2Halved returns floor(log2(x))/2 rounded down, for x < 2^256.
func intLog2Halved(x *big.Int) uint {
	v := new(big.Int).Set(x)
	var n uint
	for _, step := range []struct{ shift, inc uint }{
		{128, 64}, {64, 32}, {32, 16}, {16, 8}, {8, 4}, {4, 2}, {2, 1},
	} {
		if v.BitLen() > int(step.shift) {
			v.Rsh(v, step.shift)
			n += step.inc
		}
	}
	return n
}
