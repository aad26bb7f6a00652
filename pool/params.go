package pool

import (
	"fmt"
	"math/big"

	"github.com/tidwall/gjson"

	"github.com/krazyTry/gyro-go/eclp"
	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/poolmath"
	"github.com/krazyTry/gyro-go/shared"
	"github.com/krazyTry/gyro-go/threeclp"
	"github.com/krazyTry/gyro-go/twoclp"
)

type Kind = shared.PoolKind

const (
	KindTwoCLP   = shared.PoolKindTwoCLP
	KindThreeCLP = shared.PoolKindThreeCLP
	KindECLP     = shared.PoolKindECLP
)

func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindTwoCLP, KindThreeCLP, KindECLP} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("pool: kind %q: %w", s, shared.ErrUnknownPoolKind)
}

// Params is a tagged union: Kind selects which of the variant fields is set.
type Params struct {
	Kind     Kind
	TwoCLP   *twoclp.Params
	ThreeCLP *threeclp.Params
	ECLP     *eclp.Params
	// SwapFee is 18 decimal. nil means no fee.
	SwapFee *big.Int
}

func TwoCLPParams(p twoclp.Params, swapFee *big.Int) Params {
	return Params{Kind: KindTwoCLP, TwoCLP: &p, SwapFee: swapFee}
}

func ThreeCLPParams(p threeclp.Params, swapFee *big.Int) Params {
	return Params{Kind: KindThreeCLP, ThreeCLP: &p, SwapFee: swapFee}
}

func ECLPParams(p eclp.Params, swapFee *big.Int) Params {
	return Params{Kind: KindECLP, ECLP: &p, SwapFee: swapFee}
}

// Validate checks the fee and the parameters of the selected variant.
func (p Params) Validate() error {
	if err := poolmath.ValidateSwapFee(p.SwapFee); err != nil {
		return err
	}
	switch p.Kind {
	case KindTwoCLP:
		if p.TwoCLP == nil {
			return shared.Configuration("2clp", shared.ErrPriceBounds)
		}
		return twoclp.ValidateParams(*p.TwoCLP)
	case KindThreeCLP:
		if p.ThreeCLP == nil {
			return shared.Configuration("3clp", shared.ErrPriceBounds)
		}
		return threeclp.ValidateParams(*p.ThreeCLP)
	case KindECLP:
		if p.ECLP == nil {
			return shared.Configuration("eclp", shared.ErrPriceBounds)
		}
		return eclp.ValidateParams(*p.ECLP)
	}
	return shared.Configuration("kind", shared.ErrUnknownPoolKind)
}

// NumTokens is the number of balances the pool kind expects.
func (p Params) NumTokens() int {
	if p.Kind == KindThreeCLP {
		return 3
	}
	return 2
}

// Definition is a pool together with a balance snapshot, as stored in pool
// definition files.
type Definition struct {
	Params   Params
	Balances []*big.Int
}

// ParseDefinition reads a JSON pool definition. Amounts are decimal strings
// (or JSON numbers) in token units, e.g.
//
//	{"kind":"2clp","swapFee":"0.003","params":{"sqrtAlpha":"0.9994998749","sqrtBeta":"1.000499875"},"balances":["1232","1000"]}
func ParseDefinition(data []byte) (Definition, error) {
	if !gjson.ValidBytes(data) {
		return Definition{}, fmt.Errorf("pool: definition is not valid json")
	}
	doc := gjson.ParseBytes(data)

	kind, err := ParseKind(doc.Get("kind").String())
	if err != nil {
		return Definition{}, err
	}
	params := Params{Kind: kind}

	if fee := doc.Get("swapFee"); fee.Exists() {
		if params.SwapFee, err = parseAmount(fee, "swapFee"); err != nil {
			return Definition{}, err
		}
	}

	raw := doc.Get("params")
	field := func(name string) (*big.Int, error) {
		return parseAmount(raw.Get(name), "params."+name)
	}
	switch kind {
	case KindTwoCLP:
		var p twoclp.Params
		if p.SqrtAlpha, err = field("sqrtAlpha"); err != nil {
			return Definition{}, err
		}
		if p.SqrtBeta, err = field("sqrtBeta"); err != nil {
			return Definition{}, err
		}
		params.TwoCLP = &p
	case KindThreeCLP:
		var p threeclp.Params
		if p.Root3Alpha, err = field("root3Alpha"); err != nil {
			return Definition{}, err
		}
		params.ThreeCLP = &p
	case KindECLP:
		var p eclp.Params
		for _, f := range []struct {
			name string
			dst  **big.Int
		}{{"alpha", &p.Alpha}, {"beta", &p.Beta}, {"c", &p.C}, {"s", &p.S}, {"lambda", &p.Lambda}} {
			if *f.dst, err = field(f.name); err != nil {
				return Definition{}, err
			}
		}
		params.ECLP = &p
	}

	var balances []*big.Int
	for i, b := range doc.Get("balances").Array() {
		v, err := parseAmount(b, fmt.Sprintf("balances.%d", i))
		if err != nil {
			return Definition{}, err
		}
		balances = append(balances, v)
	}
	if len(balances) != 0 && len(balances) != params.NumTokens() {
		return Definition{}, fmt.Errorf("pool: %d balances for %s: %w", len(balances), kind, shared.ErrBalancesLength)
	}
	return Definition{Params: params, Balances: balances}, nil
}

func parseAmount(r gjson.Result, path string) (*big.Int, error) {
	if !r.Exists() {
		return nil, fmt.Errorf("pool: %s missing", path)
	}
	d, err := fp.DecimalFromString[fp.P18](r.String())
	if err != nil {
		return nil, fmt.Errorf("pool: %s: %w", path, err)
	}
	return d.Raw(), nil
}

// FormatAmount renders an 18 decimal value in token units.
func FormatAmount(v *big.Int) string {
	if v == nil {
		return ""
	}
	return fp.NewDecimal[fp.P18](v).String()
}
