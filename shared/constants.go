package shared

import (
	"math/big"
)

const (
	Decimals   = 18
	DecimalsXp = 38

	MaxNewtonIterations = 255
	SqrtTolerance       = 5
)

var (
	One   = big.NewInt(1e18)
	OneXp = new(big.Int).Exp(big.NewInt(10), big.NewInt(38), nil)
	Two   = big.NewInt(2e18)

	// 0.3
	MaxInRatio  = big.NewInt(3e17)
	MaxOutRatio = big.NewInt(3e17)

	// 1e-5, enforced on the two moved balances of a 3-CLP swap.
	MinBalanceRatio = big.NewInt(1e13)

	// 1e-4, minimum distance between the lower and upper price bound.
	MinPriceSeparation = big.NewInt(1e14)

	MaxSwapFee = big.NewInt(1e17)
)
