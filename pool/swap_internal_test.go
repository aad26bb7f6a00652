package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/gyro-go/shared"
)

func TestSwapWithFeeUnknownKind(t *testing.T) {
	calls := 0
	curve := func(amount *big.Int) (*big.Int, error) {
		calls++
		return new(big.Int).Set(amount), nil
	}
	balance := new(big.Int).Mul(big.NewInt(100), shared.One)
	req := SwapRequest{Kind: shared.SwapKind(9), TokenIn: 0, TokenOut: 1, Amount: big.NewInt(1e18)}

	_, err := swapWithFee(req, balance, nil, curve, curve)
	require.ErrorIs(t, err, shared.ErrUnknownSwapKind)
	require.True(t, shared.IsConfigurationError(err))
	require.Zero(t, calls)

	req.Kind = shared.SwapKindGivenOut
	res, err := swapWithFee(req, balance, nil, curve, curve)
	require.NoError(t, err)
	require.Equal(t, req.Amount.String(), res.AmountIn.String())
	require.Equal(t, 1, calls)
}
