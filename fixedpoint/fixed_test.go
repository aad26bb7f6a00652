package fixedpoint

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/gyro-go/shared"
)

func bi(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad int " + s)
	}
	return v
}

func TestMulDivRounding(t *testing.T) {
	tests := []struct {
		name       string
		a, b       string
		down, up   string
		divDown    string
		divUp      string
	}{
		{"one by one", "1000000000000000000", "1000000000000000000", "1000000000000000000", "1000000000000000000", "1000000000000000000", "1000000000000000000"},
		{"dust", "1", "1", "0", "1", "1000000000000000000", "1000000000000000000"},
		{"thirds", "1000000000000000000", "3000000000000000000", "3000000000000000000", "3000000000000000000", "333333333333333333", "333333333333333334"},
		{"zero", "0", "5", "0", "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := bi(tt.a), bi(tt.b)
			require.Equal(t, tt.down, MulDown(a, b).String())
			require.Equal(t, tt.up, MulUp(a, b).String())
			dd, err := DivDown(a, b)
			require.NoError(t, err)
			require.Equal(t, tt.divDown, dd.String())
			du, err := DivUp(a, b)
			require.NoError(t, err)
			require.Equal(t, tt.divUp, du.String())
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	one := shared.One
	zero := big.NewInt(0)

	_, err := DivDown(one, zero)
	require.True(t, errors.Is(err, shared.ErrDivisionByZero))
	require.True(t, shared.IsArithmeticError(err))

	_, err = DivUp(one, zero)
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
	_, err = DivDownMag(one, zero)
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
	_, err = DivUpMag(one, zero)
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
	_, err = DivXp(one, zero)
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
}

func TestDivisionWordBound(t *testing.T) {
	// 2^255 / 1e18 rounded up: the inflated numerator is just past the bound
	edge := bi("57896044618658097711785492504343953926634992332820282019729")
	below := new(big.Int).Sub(edge, big.NewInt(1))

	_, err := DivDown(below, shared.One)
	require.NoError(t, err)
	_, err = DivDown(edge, shared.One)
	require.ErrorIs(t, err, shared.ErrOverflow)
	require.True(t, shared.IsArithmeticError(err))
	_, err = DivUp(edge, shared.One)
	require.ErrorIs(t, err, shared.ErrOverflow)
	_, err = DivDownMag(new(big.Int).Neg(edge), shared.One)
	require.ErrorIs(t, err, shared.ErrOverflow)
	_, err = DivUpMag(edge, shared.One)
	require.ErrorIs(t, err, shared.ErrOverflow)

	// the extra precision path inflates by 1e38
	_, err = DivXp(shared.OneXp, shared.OneXp)
	require.NoError(t, err)
	_, err = DivXp(bi("578960446186580977117854925043439539267"), shared.OneXp)
	require.ErrorIs(t, err, shared.ErrOverflow)
}

func TestComplementAndSub(t *testing.T) {
	require.Equal(t, "700000000000000000", Complement(big.NewInt(3e17)).String())
	require.Equal(t, "0", Complement(bi("2000000000000000000")).String())

	_, err := Sub(big.NewInt(1), big.NewInt(2))
	require.ErrorIs(t, err, shared.ErrUnderflow)
	diff, err := Sub(big.NewInt(2), big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, int64(1), diff.Int64())
}

func TestSignedMagnitudeRounding(t *testing.T) {
	neg := big.NewInt(-1)
	require.Equal(t, int64(0), MulDownMag(neg, big.NewInt(1)).Int64())
	require.Equal(t, int64(-1), MulUpMag(neg, big.NewInt(1)).Int64())
	require.Equal(t, int64(1), MulUpMag(big.NewInt(1), big.NewInt(1)).Int64())

	third := big.NewInt(3e18)
	v, err := DivUpMag(big.NewInt(-1), third)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.Int64())

	v, err = DivUpMag(big.NewInt(1), new(big.Int).Neg(third))
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.Int64())

	v, err = DivDownMag(big.NewInt(-1), third)
	require.NoError(t, err)
	require.Equal(t, int64(0), v.Int64())

	require.Equal(t, int64(5), AddMag(big.NewInt(3), big.NewInt(2)).Int64())
	require.Equal(t, int64(-5), AddMag(big.NewInt(-3), big.NewInt(2)).Int64())
}

func TestExtraPrecision(t *testing.T) {
	one := shared.One
	require.Equal(t, int64(-1), MulDownXpToNp(one, big.NewInt(-1)).Int64())
	require.Equal(t, int64(0), MulUpXpToNp(one, big.NewInt(-1)).Int64())
	require.Equal(t, int64(1), MulUpXpToNp(one, big.NewInt(1)).Int64())

	third := new(big.Int).Quo(shared.OneXp, big.NewInt(3))
	require.Equal(t, "999999999999999999", MulDownXpToNp(big.NewInt(3e18), third).String())
	require.Equal(t, "1000000000000000000", MulUpXpToNp(big.NewInt(3e18), third).String())

	require.Equal(t, shared.OneXp.String(), MulXp(shared.OneXp, shared.OneXp).String())
	half, err := DivXp(shared.OneXp, new(big.Int).Mul(shared.OneXp, big.NewInt(2)))
	require.NoError(t, err)
	require.Equal(t, "50000000000000000000000000000000000000", half.String())
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"2000000000000000000", "1414213562373095048"},
		{"1", "1000000000"},
		{"7", "2645751311"},
		{"500000000000000000", "707106781186547524"},
		{"1000000000000000000", "1000000000000000000"},
		{"10000000000000000000000000000000000000000", "100000000000000000000000000000"},
		{"123456789000000000000000000", "11111111060555555440541"},
	}
	for _, tt := range tests {
		got, err := Sqrt(bi(tt.in), big.NewInt(shared.SqrtTolerance))
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.out, got.String(), tt.in)
	}

	zero, err := Sqrt(big.NewInt(0), big.NewInt(shared.SqrtTolerance))
	require.NoError(t, err)
	require.Zero(t, zero.Sign())

	_, err = Sqrt(big.NewInt(-4), big.NewInt(shared.SqrtTolerance))
	require.ErrorIs(t, err, shared.ErrNegativeSqrt)
}

func TestIntLog2Halved(t *testing.T) {
	require.Equal(t, uint(0), intLog2Halved(big.NewInt(3)))
	require.Equal(t, uint(1), intLog2Halved(big.NewInt(4)))
	require.Equal(t, uint(64), intLog2Halved(new(big.Int).Lsh(big.NewInt(1), 128)))
}

func TestCheckWord(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	require.NoError(t, CheckWord(max))
	require.NoError(t, CheckWord(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))))
	require.ErrorIs(t, CheckWord(new(big.Int).Add(max, big.NewInt(1))), shared.ErrOverflow)
	require.ErrorIs(t, CheckWord(new(big.Int).Lsh(big.NewInt(1), 256)), shared.ErrOverflow)
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	require.ErrorIs(t, CheckWord(new(big.Int).Sub(min, big.NewInt(1))), shared.ErrOverflow)
	require.ErrorIs(t, CheckWord(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 256))), shared.ErrOverflow)

	require.ErrorIs(t, CheckAmount(big.NewInt(-1)), shared.ErrNegativeAmount)
	require.ErrorIs(t, CheckAmount(nil), shared.ErrNegativeAmount)
	require.ErrorIs(t, CheckAmount(new(big.Int).Lsh(big.NewInt(1), 256)), shared.ErrOverflow)
	require.NoError(t, CheckAmounts([]*big.Int{big.NewInt(0), shared.One}))
}
