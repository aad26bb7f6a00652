package pool

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/krazyTry/gyro-go/eclp"
	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/poolmath"
	"github.com/krazyTry/gyro-go/shared"
	"github.com/krazyTry/gyro-go/threeclp"
	"github.com/krazyTry/gyro-go/twoclp"
)

// SwapRequest describes a trade between two token indices of a pool.
// Amount is the exact input for SwapKindGivenIn and the exact output for
// SwapKindGivenOut.
type SwapRequest struct {
	Kind     shared.SwapKind
	TokenIn  int
	TokenOut int
	Amount   *big.Int
}

// Pool evaluates the invariant and swaps of one parameterised pool. A Pool
// is immutable and safe for concurrent use; balances are supplied per call.
type Pool interface {
	Kind() Kind
	Params() Params
	Invariant(balances []*big.Int) (*big.Int, error)
	Swap(balances []*big.Int, req SwapRequest) (shared.SwapResult, error)
	// SpotPrice is the marginal price of tokenIn quoted in tokenOut.
	SpotPrice(balances []*big.Int, tokenIn, tokenOut int) (*big.Int, error)
}

type options struct {
	logger  *zap.Logger
	derived *eclp.DerivedParams
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDerivedParams supplies precomputed E-CLP derived values, for example
// decoded from a cache, instead of computing them in New. They are still
// checked against the derived limits.
func WithDerivedParams(d eclp.DerivedParams) Option {
	return func(o *options) {
		o.derived = &d
	}
}

// New validates params and builds the pool for its kind.
func New(params Params, opts ...Option) (Pool, error) {
	o := &options{logger: zap.NewNop()}
	for _, fn := range opts {
		fn(o)
	}
	if err := params.Validate(); err != nil {
		o.logger.Debug("pool rejected", zap.String("kind", params.Kind.String()), zap.Error(err))
		return nil, err
	}

	b := base{params: params, logger: o.logger.With(zap.String("kind", params.Kind.String()))}
	switch params.Kind {
	case KindTwoCLP:
		return &twoPool{base: b, p: *params.TwoCLP}, nil
	case KindThreeCLP:
		return &threePool{base: b, p: *params.ThreeCLP}, nil
	}

	var d eclp.DerivedParams
	if o.derived != nil {
		d = *o.derived
	} else {
		var err error
		if d, err = eclp.CalcDerivedValues(*params.ECLP); err != nil {
			return nil, err
		}
	}
	if err := eclp.ValidateDerivedParamsLimits(*params.ECLP, d); err != nil {
		o.logger.Debug("pool rejected", zap.String("kind", params.Kind.String()), zap.Error(err))
		return nil, err
	}
	return &ellipticPool{base: b, p: *params.ECLP, d: d}, nil
}

type base struct {
	params Params
	logger *zap.Logger
}

func (b base) Kind() Kind     { return b.params.Kind }
func (b base) Params() Params { return b.params }

func (b base) checkBalances(balances []*big.Int) error {
	if len(balances) != b.params.NumTokens() {
		return fmt.Errorf("pool: %d balances for %s: %w", len(balances), b.params.Kind, shared.ErrBalancesLength)
	}
	return nil
}

func (b base) checkRequest(balances []*big.Int, req SwapRequest) error {
	if err := b.checkBalances(balances); err != nil {
		return err
	}
	n := b.params.NumTokens()
	if req.TokenIn < 0 || req.TokenIn >= n || req.TokenOut < 0 || req.TokenOut >= n || req.TokenIn == req.TokenOut {
		return fmt.Errorf("pool: token pair (%d, %d) invalid for %s", req.TokenIn, req.TokenOut, b.params.Kind)
	}
	if !req.Kind.Valid() {
		return shared.Configuration("swapKind", fmt.Errorf("%d: %w", req.Kind, shared.ErrUnknownSwapKind))
	}
	if req.Amount == nil {
		return fmt.Errorf("pool: swap amount missing")
	}
	return fp.CheckAmount(req.Amount)
}

func (b base) logInvariant(invariant *big.Int, err error) {
	if err != nil {
		b.logger.Debug("invariant failed", zap.Error(err))
		return
	}
	b.logger.Debug("invariant", zap.String("value", invariant.String()))
}

func (b base) logSwap(req SwapRequest, res shared.SwapResult, err error) {
	if err != nil {
		b.logger.Debug("swap rejected",
			zap.Int("tokenIn", req.TokenIn),
			zap.Int("tokenOut", req.TokenOut),
			zap.String("amount", req.Amount.String()),
			zap.Error(err),
		)
		return
	}
	b.logger.Debug("swap",
		zap.Int("tokenIn", req.TokenIn),
		zap.Int("tokenOut", req.TokenOut),
		zap.String("amountIn", res.AmountIn.String()),
		zap.String("amountOut", res.AmountOut.String()),
		zap.String("fee", res.Fee.String()),
	)
}

// swapWithFee runs a fee free curve calculation and applies the fee on the
// input side: deducted from an exact input, added on top of a computed one.
func swapWithFee(
	req SwapRequest,
	balanceIn *big.Int,
	swapFee *big.Int,
	outGivenIn func(amountIn *big.Int) (*big.Int, error),
	inGivenOut func(amountOut *big.Int) (*big.Int, error),
) (shared.SwapResult, error) {
	switch req.Kind {
	case shared.SwapKindGivenIn:
		net, fee, err := poolmath.SubtractSwapFee(req.Amount, swapFee)
		if err != nil {
			return shared.SwapResult{}, err
		}
		out, err := outGivenIn(net)
		if err != nil {
			return shared.SwapResult{}, err
		}
		return shared.SwapResult{AmountIn: new(big.Int).Set(req.Amount), AmountOut: out, Fee: fee}, nil
	case shared.SwapKindGivenOut:
	default:
		return shared.SwapResult{}, shared.Configuration("swapKind", fmt.Errorf("%d: %w", req.Kind, shared.ErrUnknownSwapKind))
	}

	in, err := inGivenOut(req.Amount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	gross, fee, err := poolmath.AddSwapFee(in, swapFee)
	if err != nil {
		return shared.SwapResult{}, err
	}
	if gross.Cmp(fp.MulDown(balanceIn, shared.MaxInRatio)) > 0 {
		return shared.SwapResult{}, fmt.Errorf("pool: amount in: %w", shared.ErrRatioLimitExceeded)
	}
	return shared.SwapResult{AmountIn: gross, AmountOut: new(big.Int).Set(req.Amount), Fee: fee}, nil
}

type twoPool struct {
	base
	p twoclp.Params
}

func (t *twoPool) Invariant(balances []*big.Int) (*big.Int, error) {
	if err := t.checkBalances(balances); err != nil {
		return nil, err
	}
	l, err := twoclp.CalculateInvariant(balances, t.p.SqrtAlpha, t.p.SqrtBeta)
	t.logInvariant(l, err)
	return l, err
}

func (t *twoPool) Swap(balances []*big.Int, req SwapRequest) (res shared.SwapResult, err error) {
	if err := t.checkRequest(balances, req); err != nil {
		return shared.SwapResult{}, err
	}
	defer func() { t.logSwap(req, res, err) }()

	l, err := twoclp.CalculateInvariant(balances, t.p.SqrtAlpha, t.p.SqrtBeta)
	if err != nil {
		return shared.SwapResult{}, err
	}
	vIn, vOut, err := twoclp.VirtualParams(l, t.p, req.TokenIn == 0)
	if err != nil {
		return shared.SwapResult{}, err
	}
	bIn, bOut := balances[req.TokenIn], balances[req.TokenOut]
	return swapWithFee(req, bIn, t.params.SwapFee,
		func(amountIn *big.Int) (*big.Int, error) {
			return twoclp.CalcOutGivenIn(bIn, bOut, amountIn, vIn, vOut)
		},
		func(amountOut *big.Int) (*big.Int, error) {
			return twoclp.CalcInGivenOut(bIn, bOut, amountOut, vIn, vOut)
		},
	)
}

func (t *twoPool) SpotPrice(balances []*big.Int, tokenIn, tokenOut int) (*big.Int, error) {
	if err := t.checkRequest(balances, SwapRequest{TokenIn: tokenIn, TokenOut: tokenOut, Amount: new(big.Int)}); err != nil {
		return nil, err
	}
	l, err := twoclp.CalculateInvariant(balances, t.p.SqrtAlpha, t.p.SqrtBeta)
	if err != nil {
		return nil, err
	}
	price, err := twoclp.CalcSpotPrice0in1(balances, l, t.p)
	if err != nil || tokenIn == 0 {
		return price, err
	}
	return fp.DivDown(shared.One, price)
}

type threePool struct {
	base
	p threeclp.Params
}

func (t *threePool) Invariant(balances []*big.Int) (*big.Int, error) {
	if err := t.checkBalances(balances); err != nil {
		return nil, err
	}
	sol, err := threeclp.Solve(balances, t.p.Root3Alpha)
	if err != nil {
		t.logInvariant(nil, err)
		return nil, err
	}
	t.logger.Debug("invariant",
		zap.String("value", sol.Invariant.String()),
		zap.Int("iterations", sol.Iterations),
		zap.Stringer("exit", sol.Exit),
	)
	return sol.Invariant, nil
}

func (t *threePool) Swap(balances []*big.Int, req SwapRequest) (res shared.SwapResult, err error) {
	if err := t.checkRequest(balances, req); err != nil {
		return shared.SwapResult{}, err
	}
	defer func() { t.logSwap(req, res, err) }()

	l, err := threeclp.CalculateInvariant(balances, t.p.Root3Alpha)
	if err != nil {
		return shared.SwapResult{}, err
	}
	off := threeclp.VirtualOffset(l, t.p.Root3Alpha)
	bIn, bOut := balances[req.TokenIn], balances[req.TokenOut]
	return swapWithFee(req, bIn, t.params.SwapFee,
		func(amountIn *big.Int) (*big.Int, error) {
			return threeclp.CalcOutGivenIn(bIn, bOut, amountIn, off)
		},
		func(amountOut *big.Int) (*big.Int, error) {
			return threeclp.CalcInGivenOut(bIn, bOut, amountOut, off)
		},
	)
}

func (t *threePool) SpotPrice(balances []*big.Int, tokenIn, tokenOut int) (*big.Int, error) {
	if err := t.checkRequest(balances, SwapRequest{TokenIn: tokenIn, TokenOut: tokenOut, Amount: new(big.Int)}); err != nil {
		return nil, err
	}
	l, err := threeclp.CalculateInvariant(balances, t.p.Root3Alpha)
	if err != nil {
		return nil, err
	}
	return threeclp.CalcSpotPrice(balances[tokenIn], balances[tokenOut], threeclp.VirtualOffset(l, t.p.Root3Alpha))
}

type ellipticPool struct {
	base
	p eclp.Params
	d eclp.DerivedParams
}

// Derived exposes the derived values, e.g. for caching with MarshalBinary.
func (e *ellipticPool) Derived() eclp.DerivedParams { return e.d }

func (e *ellipticPool) Invariant(balances []*big.Int) (*big.Int, error) {
	if err := e.checkBalances(balances); err != nil {
		return nil, err
	}
	l, err := eclp.CalculateInvariant(balances, e.p, e.d)
	e.logInvariant(l, err)
	return l, err
}

func (e *ellipticPool) Swap(balances []*big.Int, req SwapRequest) (res shared.SwapResult, err error) {
	if err := e.checkRequest(balances, req); err != nil {
		return shared.SwapResult{}, err
	}
	defer func() { e.logSwap(req, res, err) }()

	l, invErr, err := eclp.CalculateInvariantWithError(balances, e.p, e.d)
	if err != nil {
		return shared.SwapResult{}, err
	}
	r := eclp.InvariantVector(l, invErr)
	tokenInIsToken0 := req.TokenIn == 0

	if req.Kind == shared.SwapKindGivenIn {
		// fee is charged inside the curve math; recompute it for reporting
		_, fee, err := poolmath.SubtractSwapFee(req.Amount, e.params.SwapFee)
		if err != nil {
			return shared.SwapResult{}, err
		}
		out, err := eclp.CalcOutGivenIn(balances, req.Amount, tokenInIsToken0, e.p, e.d, r, e.params.SwapFee)
		if err != nil {
			return shared.SwapResult{}, err
		}
		return shared.SwapResult{AmountIn: new(big.Int).Set(req.Amount), AmountOut: out, Fee: fee}, nil
	}

	return swapWithFee(req, balances[req.TokenIn], e.params.SwapFee, nil,
		func(amountOut *big.Int) (*big.Int, error) {
			return eclp.CalcInGivenOut(balances, amountOut, tokenInIsToken0, e.p, e.d, r, nil)
		},
	)
}

func (e *ellipticPool) SpotPrice(balances []*big.Int, tokenIn, tokenOut int) (*big.Int, error) {
	if err := e.checkRequest(balances, SwapRequest{TokenIn: tokenIn, TokenOut: tokenOut, Amount: new(big.Int)}); err != nil {
		return nil, err
	}
	l, err := eclp.CalculateInvariant(balances, e.p, e.d)
	if err != nil {
		return nil, err
	}
	price, err := eclp.CalcSpotPrice0in1(balances, e.p, e.d, l)
	if err != nil || tokenIn == 0 {
		return price, err
	}
	return fp.DivDown(shared.One, price)
}

// DerivedParams returns the E-CLP derived values of p, or false for other
// pool kinds.
func DerivedParams(p Pool) (eclp.DerivedParams, bool) {
	e, ok := p.(*ellipticPool)
	if !ok {
		return eclp.DerivedParams{}, false
	}
	return e.Derived(), true
}
