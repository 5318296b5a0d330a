package material

import (
	"testing"

	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterial(t *testing.T) {
	{ // Inverse permittivity only on the electric components
		v := grid.NewVolumeCyl(4, 10, 10, 0, 0)
		ma := NewUniform(v, 4)
		for c := types.Component(0); c < types.NumComponents; c++ {
			if v.HasField(c) && c.IsElectric() {
				require.Len(t, ma.InvEps[c], v.NTot())
				assert.Equal(t, 0.25, ma.InvEps[c][7])
			} else {
				assert.Nil(t, ma.InvEps[c])
			}
			assert.False(t, ma.HasPML(c))
		}
		assert.Panics(t, func() { NewUniform(v, 0) })
	}
	{ // Mixing lands exactly on the target at f = 1 and is a no-op at f = 0
		v := grid.NewVolume1D(20, 10)
		m1, m2 := NewUniform(v, 1), NewUniform(v, 2)
		m1.MixWith(m2, 0)
		assert.Equal(t, 1., m1.InvEps[types.Ex][3])
		m1.MixWith(m2, 0.5)
		assert.InDelta(t, 0.75, m1.InvEps[types.Ex][3], 1e-15)
		m1.MixWith(m2, 1)
		assert.Equal(t, m2.InvEps[types.Ex], m1.InvEps[types.Ex])
	}
	{ // Loss arrays missing on one side count as zero
		v := grid.NewVolume1D(20, 10)
		lossy, plain := NewUniform(v, 1), NewUniform(v, 1)
		lossy.UsePMLZ(v, 0.5, 1)
		assert.True(t, lossy.HasPML(types.Hy))
		assert.True(t, lossy.HasPML(types.Ex))
		c0 := lossy.Cmain[types.Hy][0]
		assert.Greater(t, c0, 0.)
		plain.MixWith(lossy, 0.5)
		require.NotNil(t, plain.Cmain[types.Hy])
		assert.InDelta(t, 0.5*c0, plain.Cmain[types.Hy][0], 1e-15)
		lossy.MixWith(NewUniform(v, 1), 1)
		assert.Equal(t, 0., lossy.Cmain[types.Hy][0])
	}
	{ // PML profile is quadratic, zero in the interior and symmetric
		v := grid.NewVolume1D(100, 10)
		ma := NewUniform(v, 1)
		ma.UsePMLZ(v, 1, 2)
		ce := ma.Cmain[types.Ex]
		assert.Equal(t, 0., ce[50])
		assert.Equal(t, 2., ce[0])
		assert.InDelta(t, 2*0.25, ce[5], 1e-12)
		assert.InDelta(t, ce[5], ce[95], 1e-12)
		assert.Greater(t, ce[1], ce[2])
	}
	{ // Radial PML only touches the components with r-derivative losses
		v := grid.NewVolumeCyl(20, 10, 10, 0, 1)
		ma := NewUniform(v, 1)
		ma.UsePMLR(v, 0.5, 1)
		for _, c := range []types.Component{types.Ep, types.Hp, types.Ez, types.Hz} {
			assert.NotNil(t, ma.Cother[c], c.String())
		}
		assert.Nil(t, ma.Cother[types.Er])
		assert.Nil(t, ma.Cmain[types.Ep])
		assert.Equal(t, 0., ma.Cother[types.Ez][v.Index(5, 3)])
		assert.Greater(t, ma.Cother[types.Ez][v.Index(20, 3)], 0.)
	}
	{ // Slab extraction keeps every radial row
		v := grid.NewVolumeCyl(3, 10, 10, 0, 0)
		ma := NewMaterial(v, func(r, z float64) float64 { return 1 + z })
		sub := ma.SubZ(v, 4, 8)
		vs := v.SubZ(4, 8)
		require.Len(t, sub.InvEps[types.Er], vs.NTot())
		for r := 0; r < v.Rows(); r++ {
			for z := 0; z <= vs.Nz; z++ {
				assert.Equal(t, ma.InvEps[types.Er][v.Index(r, z+4)], sub.InvEps[types.Er][vs.Index(r, z)])
			}
		}
	}
	{
		v := grid.NewVolume1D(10, 10)
		ma := NewUniform(v, 2)
		mc := ma.Copy()
		mc.InvEps[types.Ex][0] = 7
		assert.Equal(t, 0.5, ma.InvEps[types.Ex][0])
	}
}
