package pool_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/gyro-go/pool"
	"github.com/krazyTry/gyro-go/shared"
)

const eclpDefinition = `{
	"kind": "eclp",
	"swapFee": "0.09",
	"params": {
		"alpha": "0.05",
		"beta": "0.3973162699",
		"c": "0.9551573262",
		"s": "0.2960987711",
		"lambda": "748956.475"
	},
	"balances": ["100", 100]
}`

func TestParseDefinition(t *testing.T) {
	def, err := pool.ParseDefinition([]byte(eclpDefinition))
	require.NoError(t, err)
	require.Equal(t, pool.KindECLP, def.Params.Kind)
	require.Equal(t, "90000000000000000", def.Params.SwapFee.String())
	require.Equal(t, eParams.Lambda.String(), def.Params.ECLP.Lambda.String())
	require.Equal(t, eParams.Beta.String(), def.Params.ECLP.Beta.String())
	require.Len(t, def.Balances, 2)
	require.Equal(t, e18(100).String(), def.Balances[1].String())

	p, err := pool.New(def.Params)
	require.NoError(t, err)
	l, err := p.Invariant(def.Balances)
	require.NoError(t, err)
	require.Equal(t, "295358168786954", l.String())

	two, err := pool.ParseDefinition([]byte(`{"kind":"2clp","params":{"sqrtAlpha":"0.9994998749","sqrtBeta":"1.000499875"}}`))
	require.NoError(t, err)
	require.Nil(t, two.Params.SwapFee)
	require.Empty(t, two.Balances)
	require.Equal(t, twoParams.SqrtAlpha.String(), two.Params.TwoCLP.SqrtAlpha.String())

	three, err := pool.ParseDefinition([]byte(`{"kind":"3clp","params":{"root3Alpha":"0.97"},"balances":["1","2","3"]}`))
	require.NoError(t, err)
	require.Equal(t, "970000000000000000", three.Params.ThreeCLP.Root3Alpha.String())
	require.Equal(t, 3, three.Params.NumTokens())
}

func TestParseDefinitionErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"kind":`},
		{"unknown kind", `{"kind":"weighted","params":{}}`},
		{"missing param", `{"kind":"2clp","params":{"sqrtAlpha":"0.99"}}`},
		{"bad number", `{"kind":"3clp","params":{"root3Alpha":"abc"}}`},
		{"balances length", `{"kind":"3clp","params":{"root3Alpha":"0.97"},"balances":["1","2"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pool.ParseDefinition([]byte(tc.doc))
			require.Error(t, err)
		})
	}

	_, err := pool.ParseDefinition([]byte(`{"kind":"weighted"}`))
	require.ErrorIs(t, err, shared.ErrUnknownPoolKind)
}

func TestDefinitionJSON(t *testing.T) {
	def, err := pool.ParseDefinition([]byte(eclpDefinition))
	require.NoError(t, err)

	data, err := jsoniter.Marshal(def)
	require.NoError(t, err)
	require.Contains(t, string(data), `"lambda":"748956.475"`)
	require.Contains(t, string(data), `"swapFee":"0.09"`)

	var back pool.Definition
	require.NoError(t, jsoniter.Unmarshal(data, &back))
	require.Equal(t, def.Params.ECLP.C.String(), back.Params.ECLP.C.String())
	require.Equal(t, def.Balances[0].String(), back.Balances[0].String())
}
