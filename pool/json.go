package pool

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type definitionJSON struct {
	Kind     string            `json:"kind"`
	SwapFee  string            `json:"swapFee,omitempty"`
	Params   map[string]string `json:"params"`
	Balances []string          `json:"balances,omitempty"`
}

// MarshalJSON writes the format read by ParseDefinition.
func (d Definition) MarshalJSON() ([]byte, error) {
	out := definitionJSON{
		Kind:    d.Params.Kind.String(),
		SwapFee: FormatAmount(d.Params.SwapFee),
		Params:  map[string]string{},
	}
	switch {
	case d.Params.Kind == KindTwoCLP && d.Params.TwoCLP != nil:
		out.Params["sqrtAlpha"] = FormatAmount(d.Params.TwoCLP.SqrtAlpha)
		out.Params["sqrtBeta"] = FormatAmount(d.Params.TwoCLP.SqrtBeta)
	case d.Params.Kind == KindThreeCLP && d.Params.ThreeCLP != nil:
		out.Params["root3Alpha"] = FormatAmount(d.Params.ThreeCLP.Root3Alpha)
	case d.Params.Kind == KindECLP && d.Params.ECLP != nil:
		p := d.Params.ECLP
		out.Params["alpha"] = FormatAmount(p.Alpha)
		out.Params["beta"] = FormatAmount(p.Beta)
		out.Params["c"] = FormatAmount(p.C)
		out.Params["s"] = FormatAmount(p.S)
		out.Params["lambda"] = FormatAmount(p.Lambda)
	}
	for _, b := range d.Balances {
		out.Balances = append(out.Balances, FormatAmount(b))
	}
	return json.Marshal(out)
}

// UnmarshalJSON is ParseDefinition.
func (d *Definition) UnmarshalJSON(data []byte) error {
	def, err := ParseDefinition(data)
	if err != nil {
		return err
	}
	*d = def
	return nil
}
