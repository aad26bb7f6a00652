package gyro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFacade(t *testing.T) {
	def, err := ParseDefinition([]byte(`{"kind":"3clp","params":{"root3Alpha":"0.97"},"balances":["100","100","100"]}`))
	require.NoError(t, err)

	p, err := NewPool(def.Params)
	require.NoError(t, err)

	l, err := p.Invariant(def.Balances)
	require.NoError(t, err)
	require.Equal(t, "3333333333333333333333", l.String())
}
