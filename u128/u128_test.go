package u128

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt128FromBig(t *testing.T) {
	for _, s := range []string{
		"0",
		"-1",
		"100000000000000000000000000000000000000",
		"-99999999998525122425954888083464318985",
		"-170141183460469231731687303715884105728",
	} {
		v, _ := new(big.Int).SetString(s, 10)
		w, err := Int128FromBig(v)
		require.NoError(t, err, s)
		require.Equal(t, s, w.BigInt().String())
	}

	_, err := Int128FromBig(new(big.Int).Lsh(big.NewInt(1), 127))
	require.Error(t, err)
}
