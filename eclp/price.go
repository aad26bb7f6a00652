package eclp

import (
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

// MulA applies the ellipse to circle map A to an 18 decimal vector.
func MulA(p Params, t shared.Vector2) (shared.Vector2, error) {
	k := &calc{}
	x := sub(
		k.divDownMag(fp.MulDownMag(p.C, t.X), p.Lambda),
		k.divDownMag(fp.MulDownMag(p.S, t.Y), p.Lambda),
	)
	y := add(fp.MulDownMag(p.S, t.X), fp.MulDownMag(p.C, t.Y))
	if k.err != nil {
		return shared.Vector2{}, k.err
	}
	return shared.Vector2{X: x, Y: y}, nil
}

func scalarProd(a, b shared.Vector2) *big.Int {
	return add(fp.MulDownMag(a.X, b.X), fp.MulDownMag(a.Y, b.Y))
}

// CalcSpotPrice0in1 is the marginal price of asset 0 in units of asset 1.
// The price is read off the circle and mapped back to the ellipse.
func CalcSpotPrice0in1(balances []*big.Int, p Params, d DerivedParams, invariant *big.Int) (*big.Int, error) {
	if len(balances) != 2 {
		return nil, shared.ErrBalancesLength
	}
	r := shared.Vector2{X: invariant, Y: invariant}
	k := &calc{}
	a, b := offsets(k, p, d, r)
	if k.err != nil {
		return nil, k.err
	}

	v, err := MulA(p, shared.Vector2{X: sub(balances[0], a), Y: sub(balances[1], b)})
	if err != nil {
		return nil, err
	}
	pcX, err := fp.DivDownMag(v.X, v.Y)
	if err != nil {
		return nil, err
	}
	pc := shared.Vector2{X: pcX, Y: shared.One}

	ex, err := MulA(p, shared.Vector2{X: shared.One, Y: new(big.Int)})
	if err != nil {
		return nil, err
	}
	ey, err := MulA(p, shared.Vector2{X: new(big.Int), Y: shared.One})
	if err != nil {
		return nil, err
	}
	return fp.DivDownMag(scalarProd(pc, ex), scalarProd(pc, ey))
}
