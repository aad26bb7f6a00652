package shared

import (
	"math/big"
)

// Enums and common types shared by the fixed point and pool math packages.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

func (r Rounding) String() string {
	if r == RoundingUp {
		return "up"
	}
	return "down"
}

type PoolKind uint8

const (
	PoolKindTwoCLP   PoolKind = 0
	PoolKindThreeCLP PoolKind = 1
	PoolKindECLP     PoolKind = 2
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindTwoCLP:
		return "2clp"
	case PoolKindThreeCLP:
		return "3clp"
	case PoolKindECLP:
		return "eclp"
	}
	return "unknown"
}

type SwapKind uint8

const (
	SwapKindGivenIn  SwapKind = 0
	SwapKindGivenOut SwapKind = 1
)

func (k SwapKind) Valid() bool {
	return k == SwapKindGivenIn || k == SwapKindGivenOut
}

// Vector2 is a pair of fixed point values. Depending on context the
// components are 18 or 38 decimal.
type Vector2 struct {
	X *big.Int
	Y *big.Int
}

func NewVector2(x, y *big.Int) Vector2 {
	return Vector2{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

func (v Vector2) String() string {
	return "(" + v.X.String() + ", " + v.Y.String() + ")"
}

type SwapResult struct {
	AmountIn  *big.Int
	AmountOut *big.Int
	Fee       *big.Int
}
