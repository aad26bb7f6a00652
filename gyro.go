package gyro

import (
	"github.com/krazyTry/gyro-go/pool"
)

// NewPool validates pool params and returns a Pool.
//
// Example:
//
// p, _ := NewPool(pool.ECLPParams(params, swapFee), pool.WithLogger(logger))
//
// l, _ := p.Invariant(balances)
//
// res, _ := p.Swap(balances, pool.SwapRequest{Kind: shared.SwapKindGivenIn, TokenIn: 0, TokenOut: 1, Amount: amountIn})
var NewPool = pool.New

// ParseDefinition reads a JSON pool definition.
//
// Example:
//
// def, _ := ParseDefinition(data)
//
// p, _ := NewPool(def.Params)
var ParseDefinition = pool.ParseDefinition
