package poolmath

import (
	"fmt"
	"math/big"

	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/shared"
)

// ValidateSwapFee accepts fees in [0, 0.1]. A nil fee is zero.
func ValidateSwapFee(swapFee *big.Int) error {
	if swapFee == nil {
		return nil
	}
	if swapFee.Sign() < 0 || swapFee.Cmp(shared.MaxSwapFee) > 0 {
		return shared.Configuration("swapFee", shared.ErrSwapFee)
	}
	return nil
}

// SubtractSwapFee charges the fee on an exact input amount. The fee is
// rounded up.
func SubtractSwapFee(amount, swapFee *big.Int) (net, fee *big.Int, err error) {
	if err := ValidateSwapFee(swapFee); err != nil {
		return nil, nil, err
	}
	if swapFee == nil {
		return new(big.Int).Set(amount), new(big.Int), nil
	}
	fee = fp.MulUp(amount, swapFee)
	return new(big.Int).Sub(amount, fee), fee, nil
}

// AddSwapFee grosses a fee free input up to amount/(1 - fee), rounding up.
func AddSwapFee(amount, swapFee *big.Int) (gross, fee *big.Int, err error) {
	if err := ValidateSwapFee(swapFee); err != nil {
		return nil, nil, err
	}
	if swapFee == nil || swapFee.Sign() == 0 {
		return new(big.Int).Set(amount), new(big.Int), nil
	}
	gross, err = fp.DivUp(amount, fp.Complement(swapFee))
	if err != nil {
		return nil, nil, err
	}
	return gross, new(big.Int).Sub(gross, amount), nil
}

// LiquidityInvariantUpdate scales the invariant by the relative change of
// the largest balance for a proportional join (isIncrease) or exit. The
// change is rounded down on joins and up on exits.
func LiquidityInvariantUpdate(balances []*big.Int, invariant *big.Int, deltaBalances []*big.Int, isIncrease bool) (*big.Int, error) {
	if len(balances) == 0 || len(balances) != len(deltaBalances) {
		return nil, shared.ErrBalancesLength
	}
	if err := fp.CheckAmounts(append(append([]*big.Int{invariant}, balances...), deltaBalances...)); err != nil {
		return nil, err
	}

	largest := 0
	for i, b := range balances {
		if b.Cmp(balances[largest]) > 0 {
			largest = i
		}
	}
	if isIncrease {
		delta, err := fp.DivDown(fp.MulDown(invariant, deltaBalances[largest]), balances[largest])
		if err != nil {
			return nil, err
		}
		return new(big.Int).Add(invariant, delta), nil
	}
	delta, err := fp.DivUp(fp.MulUp(invariant, deltaBalances[largest]), balances[largest])
	if err != nil {
		return nil, err
	}
	return fp.Sub(invariant, delta)
}

// CalcAllTokensInGivenExactBptOut returns the proportional amounts required
// to mint bptAmountOut. Rounded up.
func CalcAllTokensInGivenExactBptOut(balances []*big.Int, bptAmountOut, totalBpt *big.Int) ([]*big.Int, error) {
	ratio, err := fp.DivUp(bptAmountOut, totalBpt)
	if err != nil {
		return nil, fmt.Errorf("poolmath: total supply: %w", err)
	}
	amounts := make([]*big.Int, len(balances))
	for i, b := range balances {
		amounts[i] = fp.MulUp(b, ratio)
	}
	return amounts, nil
}

// CalcTokensOutGivenExactBptIn returns the proportional amounts released by
// burning bptAmountIn. Rounded down.
func CalcTokensOutGivenExactBptIn(balances []*big.Int, bptAmountIn, totalBpt *big.Int) ([]*big.Int, error) {
	ratio, err := fp.DivDown(bptAmountIn, totalBpt)
	if err != nil {
		return nil, fmt.Errorf("poolmath: total supply: %w", err)
	}
	amounts := make([]*big.Int, len(balances))
	for i, b := range balances {
		amounts[i] = fp.MulDown(b, ratio)
	}
	return amounts, nil
}

type ProtocolFees struct {
	Gyro     *big.Int
	Balancer *big.Int
}

// CalcProtocolFees returns the pool tokens to mint as protocol fee for the
// invariant growth since previousInvariant, split by gyroShare between the
// two fee recipients.
func CalcProtocolFees(previousInvariant, currentInvariant, currentBptSupply, protocolSwapFee, gyroShare *big.Int) (ProtocolFees, error) {
	if currentInvariant.Cmp(previousInvariant) <= 0 {
		return ProtocolFees{Gyro: new(big.Int), Balancer: new(big.Int)}, nil
	}

	diff := fp.MulDown(protocolSwapFee, new(big.Int).Sub(currentInvariant, previousInvariant))
	numerator := fp.MulDown(diff, currentBptSupply)
	denominator, err := fp.Sub(currentInvariant, diff)
	if err != nil {
		return ProtocolFees{}, err
	}
	deltaS, err := fp.DivDown(numerator, denominator)
	if err != nil {
		return ProtocolFees{}, err
	}

	gyro := fp.MulDown(gyroShare, deltaS)
	return ProtocolFees{Gyro: gyro, Balancer: new(big.Int).Sub(deltaS, gyro)}, nil
}
