package grid

import (
	"testing"

	"github.com/notargets/gofdtd/types"
	"github.com/stretchr/testify/assert"
)

func TestVolume(t *testing.T) {
	{ // Array sizes
		v := NewVolume1D(100, 10)
		assert.NoError(t, v.Validate())
		assert.Equal(t, 101, v.NTot())
		assert.Equal(t, 1, v.Rows())
		vc := NewVolumeCyl(8, 20, 10, 0, 1)
		assert.NoError(t, vc.Validate())
		assert.Equal(t, 9*21, vc.NTot())
		assert.Equal(t, 21+3, vc.Index(1, 3))
	}
	{ // Exactly one dimensionality is active
		v := NewVolume1D(10, 10)
		v.Dim = types.Dimension(7)
		assert.Error(t, v.Validate())
		assert.False(t, v.HasField(types.Ex))
		assert.Error(t, NewVolumeCyl(0, 10, 10, 0, 0).Validate())
		assert.Error(t, NewVolumeCyl(4, 10, 10, 0, -1).Validate())
		assert.Error(t, NewVolume1D(10, 0).Validate())
	}
	{ // Component existence
		v := NewVolume1D(10, 10)
		assert.Equal(t, []types.Component{types.Ex}, v.Components(types.EStuff))
		assert.Equal(t, []types.Component{types.Hy}, v.Components(types.HStuff))
		vc := NewVolumeCyl(4, 10, 10, 0, 0)
		assert.Equal(t, []types.Component{types.Er, types.Ep, types.Ez}, vc.Components(types.EStuff))
		assert.False(t, vc.HasField(types.Ex))
	}
	{ // Radial shift rounds the origin to the nearest cell
		assert.Equal(t, 0, NewVolumeCyl(4, 4, 10, 0, 0).RShift())
		assert.Equal(t, 3, NewVolumeCyl(4, 4, 10, 0.26, 0).RShift())
		assert.True(t, NewVolumeCyl(4, 4, 10, 0, 0).OriginCentered())
	}
	{ // Slabs
		v := NewVolumeCyl(4, 30, 10, 0, 2)
		s := v.SubZ(10, 20)
		assert.Equal(t, 10, s.Nz)
		assert.Equal(t, 4, s.Nr)
		assert.Equal(t, 2, s.M)
		assert.Panics(t, func() { v.SubZ(20, 10) })
	}
	{
		v := NewVolume1D(10, 10)
		_, z := v.Position(types.Hy, 0, 2)
		assert.InDelta(t, 0.25, z, 1e-15)
		_, z = v.Position(types.Ex, 0, 2)
		assert.InDelta(t, 0.2, z, 1e-15)
	}
}
