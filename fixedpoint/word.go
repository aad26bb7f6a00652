package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/krazyTry/gyro-go/shared"
)

var (
	maxWord = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	minWord = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
)

// CheckWord fails with ErrOverflow when x is outside [-2^255, 2^255-1].
func CheckWord(x *big.Int) error {
	if x.Cmp(maxWord) > 0 || x.Cmp(minWord) < 0 {
		return shared.Arithmetic("word", shared.ErrOverflow)
	}
	return nil
}

// CheckAmount validates a caller supplied unsigned amount.
func CheckAmount(x *big.Int) error {
	if x == nil || x.Sign() < 0 {
		return shared.ErrNegativeAmount
	}
	if _, overflow := uint256.FromBig(x); overflow {
		return shared.Arithmetic("amount", shared.ErrOverflow)
	}
	return nil
}

func CheckAmounts(xs []*big.Int) error {
	for _, x := range xs {
		if err := CheckAmount(x); err != nil {
			return err
		}
	}
	return nil
}
