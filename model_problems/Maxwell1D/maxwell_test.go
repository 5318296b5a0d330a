package Maxwell1D

import (
	"testing"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/transport"
	"github.com/notargets/gofdtd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxwell1D(t *testing.T) {
	ip := &InputParameters.InputParametersFDTD{}
	require.NoError(t, ip.Parse([]byte(`
Title: "Pulse into a slab"
Dimension: 1D
Resolution: 10
Nz: 120
Steps: 120
NumChunks: 4
Parallel: true
PML: {Thickness: 1, Strength: 1}
PhaseIn: {Steps: 20, Epsilon: 2}
Sources:
  - Component: Hy
    Z: 60
    Amplitude: [1, 0]
    Envelope: {Type: gaussian, Frequency: 1, Width: 0.3, Peak: 1.5}
`)))
	c, err := NewMaxwell(ip, nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.Run(false))
	assert.Equal(t, 120, c.FS.Clock().T)
	assert.Greater(t, c.FS.MaxAbs(types.Ex), 0.)
	assert.Equal(t, 0.5, c.FS.Chunks()[2].Material().InvEps[types.Ex][3])

	{ // Wrong dimension and a transport with too few ranks
		ip.Dimension = "cyl"
		ip.Nr = 4
		_, err = NewMaxwell(ip, nil, nil)
		assert.Error(t, err)
		ip.Dimension = "1D"
		hub := transport.NewHub(2)
		c, err = NewMaxwell(ip, hub.Endpoint(1), nil)
		require.NoError(t, err)
		for _, ch := range c.FS.Chunks()[:2] {
			assert.False(t, ch.IsMine())
		}
	}
}
