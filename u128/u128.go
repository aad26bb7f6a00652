package u128

import (
	"encoding/binary"
	"errors"
	"math/big"

	bin "github.com/gagliardetto/binary"
)

// 38 decimal derived values travel as signed 128-bit words
// (|x| <= 1e38 < 2^127).

var (
	mask64  = new(big.Int).SetUint64(^uint64(0))
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

func split(v *big.Int) (lo, hi uint64) {
	lo = new(big.Int).And(v, mask64).Uint64()
	hi = new(big.Int).Rsh(v, 64).Uint64()
	return lo, hi
}

func Int128FromBig(v *big.Int) (bin.Int128, error) {
	if v.Cmp(maxI128) > 0 || v.Cmp(minI128) < 0 {
		return bin.Int128{}, errors.New("value overflows Int128")
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	lo, hi := split(u)
	return bin.Int128{Lo: lo, Hi: hi, Endianness: binary.LittleEndian}, nil
}
