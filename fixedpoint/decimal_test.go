package fixedpoint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/gyro-go/shared"
)

func mustDecimal[P Precision](s string) Decimal[P] {
	d, err := DecimalFromString[P](s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDecimalQuantizedCompare(t *testing.T) {
	a := mustDecimal[P38]("1.00000000000000000001")
	b := mustDecimal[P38]("1")
	require.Equal(t, 0, a.Cmp(b))
	require.Equal(t, 1, a.CmpExact(b))

	c := mustDecimal[P38]("1.000000000000000001")
	require.Equal(t, 1, c.Cmp(b))

	// the 18 digit type truncates at parse time
	d := mustDecimal[P18]("0.0000000000000000005")
	require.True(t, d.IsZero())
}

func TestDecimalRounding(t *testing.T) {
	one := DecimalFromInt[P18](1)
	three := DecimalFromInt[P18](3)

	down, err := one.DivDown(three)
	require.NoError(t, err)
	require.Equal(t, "0.333333333333333333", down.String())

	up, err := one.DivUp(three)
	require.NoError(t, err)
	require.Equal(t, "0.333333333333333334", up.String())

	negUp, err := one.Neg().DivUp(three)
	require.NoError(t, err)
	require.Equal(t, "-0.333333333333333334", negUp.String())

	dust := NewDecimal[P18](bi("1"))
	require.True(t, dust.MulDown(dust).IsZero())
	require.Equal(t, "0.000000000000000001", dust.MulUp(dust).String())

	_, err = one.DivDown(Decimal[P18]{})
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
}

func TestDecimalSqrt(t *testing.T) {
	two := DecimalFromInt[P100](2)
	root, err := two.Sqrt()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(root.String(), "1.41421356237309504880168872420969807856967187537694807317667973799"))

	back := root.MulUp(root)
	require.LessOrEqual(t, two.Sub(back).Abs().CmpExact(mustDecimal[P100]("1e-98")), 0)

	_, err = two.Neg().Sqrt()
	require.ErrorIs(t, err, shared.ErrNegativeSqrt)
}

func TestRescale(t *testing.T) {
	x := mustDecimal[P38]("-0.12345678901234567890123456789")
	y := Rescale[P18](x)
	require.Equal(t, "-0.123456789012345678", y.String())

	z := Rescale[P100](y)
	require.Equal(t, 0, z.Cmp(Rescale[P100](x)))
	require.Equal(t, "-123456789012345678", y.Raw().String())
}

func TestDecimalParseError(t *testing.T) {
	_, err := DecimalFromString[P18]("one")
	require.Error(t, err)
}
