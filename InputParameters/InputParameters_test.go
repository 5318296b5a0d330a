package InputParameters

import (
	"testing"

	"github.com/notargets/gofdtd/fields"
	"github.com/notargets/gofdtd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cylInput = []byte(`
########################################
Title: "Dielectric step in a pipe"
Dimension: cyl
Resolution: 4
Nz: 40
Nr: 8
M: 1
Steps: 20
NumChunks: 3
Boundary: metal
Epsilon: 1
PML:
  Thickness: 1
  Strength: 2
  Radial: true
PhaseIn:
  Steps: 10
  Epsilon: 2.25
Sources:
  - Component: Er
    R: 2
    Z: 20
    Amplitude: [1, 0.5]
    Envelope:
      Type: gaussian
      Frequency: 0.5
      Width: 1
      Peak: 3
########################################
`)

func TestParse(t *testing.T) {
	ip := &InputParametersFDTD{}
	require.NoError(t, ip.Parse(cylInput))
	assert.Equal(t, "Dielectric step in a pipe", ip.Title)
	assert.Equal(t, 40, ip.Nz)
	assert.Equal(t, 2.25, ip.PhaseIn.Epsilon)
	assert.True(t, ip.PML.Radial)
	require.Len(t, ip.Sources, 1)
	assert.Equal(t, 20, ip.Sources[0].Z)
	assert.Equal(t, [2]float64{1, 0.5}, ip.Sources[0].Amplitude)
	require.NoError(t, ip.Validate())
	ip.Print()

	v := ip.Volume()
	assert.Equal(t, types.DCyl, v.Dim)
	assert.Equal(t, 8, v.Nr)
	ma := ip.Material(v)
	assert.NotNil(t, ma.Cother[types.Ez]) // Radial PML
	assert.NotNil(t, ip.PhaseInMaterial(v))
	opts := ip.Options()
	assert.Equal(t, 3, opts.NumChunks)
	assert.Equal(t, types.Metal, opts.Boundary)

	fs, err := fields.NewFieldSet(v, ma, opts)
	require.NoError(t, err)
	require.NoError(t, ip.AddSources(fs))
	n := 0
	for _, ch := range fs.Chunks() {
		n += len(ch.Sources(types.EStuff))
	}
	assert.Equal(t, 1, n)
}

func TestValidate(t *testing.T) {
	{ // Defaults for a minimal 1D run
		ip := &InputParametersFDTD{}
		require.NoError(t, ip.Parse([]byte("Dimension: 1D\nResolution: 10\nNz: 100\n")))
		require.NoError(t, ip.Validate())
		assert.Nil(t, ip.PhaseInMaterial(ip.Volume()))
		assert.Equal(t, 1., 1/ip.Material(ip.Volume()).InvEps[types.Ex][0])
		assert.Equal(t, types.Metal, ip.Options().Boundary)
	}
	{ // Every problem is reported
		ip := &InputParametersFDTD{
			Dimension:  "cyl",
			Resolution: 1,
			Nz:         4,
			Nr:         0,
			NumChunks:  9,
			Boundary:   "sticky",
			Sources: []SourceParameters{
				{Component: "Hy"},
				{Component: "Ez", Envelope: EnvelopeParameters{Type: "square"}},
			},
		}
		err := ip.Validate()
		require.Error(t, err)
		for _, msg := range []string{"nr >= 1", "9 chunks", "sticky", "Hy", "square"} {
			assert.Contains(t, err.Error(), msg)
		}
	}
	{
		ip := &InputParametersFDTD{Dimension: "2D"}
		assert.Error(t, ip.Validate())
	}
}

func TestEnvelopes(t *testing.T) {
	env, err := EnvelopeParameters{}.envelope()
	require.NoError(t, err)
	assert.Equal(t, fields.Constant{}, env)
	env, err = EnvelopeParameters{Type: "CW", Frequency: 2, Width: 1}.envelope()
	require.NoError(t, err)
	assert.Equal(t, fields.Continuous{Frequency: 2, Width: 1}, env)
	_, err = EnvelopeParameters{Type: "gaussian"}.envelope()
	assert.Error(t, err)
}
