// Package grid describes the structured sub-grids the field solver steps
package grid

import (
	"fmt"

	"github.com/notargets/gofdtd/types"
)

// Volume is the grid descriptor consumed by the stencil kernels. Cylindrical
// volumes carry the azimuthal mode number M; 1D volumes ignore Nr, OriginR
// and M.
type Volume struct {
	Dim     types.Dimension
	A       float64 // Resolution, cells per unit length
	Nr, Nz  int
	OriginR float64
	M       int
}

func NewVolume1D(nz int, a float64) Volume {
	return Volume{Dim: types.D1, A: a, Nz: nz}
}

func NewVolumeCyl(nr, nz int, a, originR float64, m int) Volume {
	return Volume{Dim: types.DCyl, A: a, Nr: nr, Nz: nz, OriginR: originR, M: m}
}

func (v Volume) Validate() error {
	switch v.Dim {
	case types.D1:
	case types.DCyl:
		if v.Nr < 1 {
			return fmt.Errorf("cylindrical volume needs nr >= 1, have %d", v.Nr)
		}
		if v.M < 0 {
			return fmt.Errorf("azimuthal mode number must be non-negative, have %d", v.M)
		}
		if v.OriginR < 0 {
			return fmt.Errorf("radial origin must be non-negative, have %g", v.OriginR)
		}
	default:
		return fmt.Errorf("unsupported dimension %v", v.Dim)
	}
	if v.Nz < 1 {
		return fmt.Errorf("volume needs nz >= 1, have %d", v.Nz)
	}
	if v.A <= 0 {
		return fmt.Errorf("resolution must be positive, have %g", v.A)
	}
	return nil
}

// NR is the number of radial cells, zero for 1D volumes
func (v Volume) NR() int {
	if v.Dim == types.DCyl {
		return v.Nr
	}
	return 0
}

func (v Volume) NZ() int { return v.Nz }

// Rows is the number of radial rows, each of which holds nz+1 samples
func (v Volume) Rows() int { return v.NR() + 1 }

func (v Volume) NTot() int { return v.Rows() * (v.Nz + 1) }

func (v Volume) Index(r, z int) int { return z + r*(v.Nz+1) }

// RShift is the integer physical radius of grid row zero
func (v Volume) RShift() int {
	return int(v.OriginR*v.A + 0.5)
}

// OriginCentered reports whether row zero sits on the coordinate axis
func (v Volume) OriginCentered() bool {
	return v.OriginR == 0
}

func (v Volume) HasField(c types.Component) bool {
	switch v.Dim {
	case types.D1:
		return c == types.Ex || c == types.Hy
	case types.DCyl:
		switch c {
		case types.Er, types.Ep, types.Ez, types.Hr, types.Hp, types.Hz:
			return true
		}
	}
	return false
}

// Components lists the components present on the volume of the given type,
// in component order.
func (v Volume) Components(ft types.FieldType) (cs []types.Component) {
	for c := types.Component(0); c < types.NumComponents; c++ {
		if v.HasField(c) && c.FieldType() == ft {
			cs = append(cs, c)
		}
	}
	return
}

// SubZ returns the descriptor of the slab covering global z cells [z0, z1]
func (v Volume) SubZ(z0, z1 int) Volume {
	if z0 < 0 || z1 > v.Nz || z1 <= z0 {
		panic(fmt.Sprintf("invalid sub-volume [%d,%d] of nz = %d", z0, z1, v.Nz))
	}
	sub := v
	sub.Nz = z1 - z0
	return sub
}

// Position returns the physical (r, z) location of a component sample,
// accounting for the half-cell stagger of the Yee lattice.
func (v Volume) Position(c types.Component, r, z int) (rr, zz float64) {
	zz = float64(z) / v.A
	if types.HalfZ(c) {
		zz += 0.5 / v.A
	}
	if v.Dim == types.DCyl {
		rr = float64(v.RShift()+r) / v.A
		switch c {
		case types.Er, types.Hp, types.Hz:
			rr += 0.5 / v.A
		}
	}
	return
}
