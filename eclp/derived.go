package eclp

import (
	"math/big"

	"github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

type d100 = fixedpoint.Decimal[fixedpoint.P100]

func from18(v *big.Int) d100 {
	return fixedpoint.Rescale[fixedpoint.P100](fixedpoint.NewDecimal[fixedpoint.P18](v))
}

func to38(v d100) *big.Int {
	return fixedpoint.Rescale[fixedpoint.P38](v).Raw()
}

// CalcDerivedValues evaluates tau(alpha), tau(beta), u, v, w, z and dSq at
// 100 digits and truncates each to 38 decimals. Numerators use the rotation
// vector as given while the normalization of tau uses (c, s)/|(c, s)|.
func CalcDerivedValues(p Params) (DerivedParams, error) {
	var firstErr error
	div := func(a, b d100) d100 {
		q, err := a.DivDown(b)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return q
	}
	sqrt := func(a d100) d100 {
		r, err := a.Sqrt()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return r
	}

	c, s, lam := from18(p.C), from18(p.S), from18(p.Lambda)
	one := fixedpoint.DecimalFromInt[fixedpoint.P100](1)

	dSq := c.MulDown(c).Add(s.MulDown(s))
	d := sqrt(dSq)
	cd, sd := div(c, d), div(s, d)
	lamSq := lam.MulDown(lam)

	tau := func(px d100) (d100, d100) {
		a := cd.Add(px.MulDown(sd))
		b := px.MulDown(cd).Sub(sd)
		dp := div(one, sqrt(div(a.MulDown(a), lamSq).Add(b.MulDown(b))))
		x := px.MulDown(c).Sub(s).MulDown(dp)
		y := div(c.Add(s.MulDown(px)).MulDown(dp), lam)
		return x, y
	}
	taX, taY := tau(from18(p.Alpha))
	tbX, tbY := tau(from18(p.Beta))
	if firstErr != nil {
		return DerivedParams{}, shared.Configuration("derived", firstErr)
	}

	sc := s.MulDown(c)
	cc := c.MulDown(c)
	ss := s.MulDown(s)
	w := sc.MulDown(tbY.Sub(taY))
	z := cc.MulDown(tbX).Add(ss.MulDown(taX))
	u := sc.MulDown(tbX.Sub(taX))
	v := ss.MulDown(tbY).Add(cc.MulDown(taY))

	return DerivedParams{
		TauAlpha: shared.Vector2{X: to38(taX), Y: to38(taY)},
		TauBeta:  shared.Vector2{X: to38(tbX), Y: to38(tbY)},
		U:        to38(u),
		V:        to38(v),
		W:        to38(w),
		Z:        to38(z),
		DSq:      to38(dSq),
	}, nil
}
