package eclp

import (
	"fmt"
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

var (
	// 1e-8
	rotationVectorNormAccuracy = big.NewInt(1e10)
	// lambda <= 1e8
	maxStretchFactor = pow10(26)
	// 1e-8 at 38 decimals
	derivedTauNormAccuracyXp = pow10(30)
	derivedDSqNormAccuracyXp = pow10(30)

	maxInvInvariantDenominatorXp = pow10(43)
	maxBalances                  = pow10(34)
	maxInvariant                 = new(big.Int).Mul(big.NewInt(3), pow10(37))
)

// Params are 18 decimal. (C, S) is the rotation vector of the ellipse and
// Lambda its stretch along the rotated x axis.
type Params struct {
	Alpha  *big.Int
	Beta   *big.Int
	C      *big.Int
	S      *big.Int
	Lambda *big.Int
}

// DerivedParams are 38 decimal values computed once per pool by
// CalcDerivedValues.
type DerivedParams struct {
	TauAlpha shared.Vector2
	TauBeta  shared.Vector2
	U        *big.Int
	V        *big.Int
	W        *big.Int
	Z        *big.Int
	DSq      *big.Int
}

func within(x, target, accuracy *big.Int) bool {
	lo := new(big.Int).Sub(target, accuracy)
	hi := new(big.Int).Add(target, accuracy)
	return x.Cmp(lo) >= 0 && x.Cmp(hi) <= 0
}

func ValidateParams(p Params) error {
	for _, f := range []struct {
		name string
		v    *big.Int
	}{{"alpha", p.Alpha}, {"beta", p.Beta}, {"c", p.C}, {"s", p.S}, {"lambda", p.Lambda}} {
		if f.v == nil {
			return shared.Configuration(f.name, fmt.Errorf("missing: %w", shared.ErrPriceBounds))
		}
	}

	if p.Alpha.Sign() <= 0 || p.Beta.Cmp(p.Alpha) <= 0 {
		return shared.Configuration("beta", shared.ErrPriceBounds)
	}
	if new(big.Int).Sub(p.Beta, p.Alpha).Cmp(shared.MinPriceSeparation) < 0 {
		return shared.Configuration("beta", fmt.Errorf("bounds closer than 1e-4: %w", shared.ErrPriceBounds))
	}

	if p.S.Sign() < 0 || p.S.Cmp(shared.One) > 0 {
		return shared.Configuration("s", shared.ErrRotationVector)
	}
	if p.C.Sign() < 0 || p.C.Cmp(shared.One) > 0 {
		return shared.Configuration("c", shared.ErrRotationVector)
	}
	norm2 := new(big.Int).Add(fp.MulDown(p.C, p.C), fp.MulDown(p.S, p.S))
	if !within(norm2, shared.One, rotationVectorNormAccuracy) {
		return shared.Configuration("c,s", shared.ErrRotationNotNormalized)
	}

	if p.Lambda.Cmp(shared.One) < 0 || p.Lambda.Cmp(maxStretchFactor) > 0 {
		return shared.Configuration("lambda", shared.ErrStretchFactor)
	}
	return nil
}

// ValidateDerivedParamsLimits checks derived values against the bounds the
// invariant and swap math rely on to stay inside 256-bit words.
func ValidateDerivedParamsLimits(p Params, d DerivedParams) error {
	for _, tau := range []struct {
		name string
		v    shared.Vector2
	}{{"tauAlpha", d.TauAlpha}, {"tauBeta", d.TauBeta}} {
		norm2 := new(big.Int).Add(fp.MulXp(tau.v.X, tau.v.X), fp.MulXp(tau.v.Y, tau.v.Y))
		if !within(norm2, shared.OneXp, derivedTauNormAccuracyXp) {
			return shared.Configuration(tau.name, fmt.Errorf("not normalized: %w", shared.ErrDerivedParams))
		}
	}

	for _, f := range []struct {
		name string
		v    *big.Int
	}{{"u", d.U}, {"v", d.V}, {"w", d.W}, {"z", d.Z}} {
		if f.v.Cmp(shared.OneXp) > 0 {
			return shared.Configuration(f.name, shared.ErrDerivedParams)
		}
	}

	if !within(d.DSq, shared.OneXp, derivedDSqNormAccuracyXp) {
		return shared.Configuration("dSq", shared.ErrDerivedParams)
	}

	achiachi, err := CalcAChiAChiInXp(p, d)
	if err != nil {
		return err
	}
	den := new(big.Int).Sub(achiachi, shared.OneXp)
	if den.Sign() <= 0 {
		return shared.Configuration("lambda", shared.ErrInvariantDenominator)
	}
	mulDenominator, err := fp.DivXp(shared.OneXp, den)
	if err != nil {
		return err
	}
	if mulDenominator.Cmp(maxInvInvariantDenominatorXp) > 0 {
		return shared.Configuration("lambda", shared.ErrInvariantDenominator)
	}
	return nil
}
