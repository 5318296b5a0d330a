// Package material holds the per-component coefficient arrays consumed by
// the stencil kernels: inverse permittivity for the electric components and
// up to two per-axis loss arrays used by the split-field PML.
package material

import (
	"fmt"

	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
	"gonum.org/v1/gonum/floats"
)

// Material coefficients, indexed by component and then by the linear grid
// offset of the owning volume. A nil loss array is lossless.
//
// Cmain carries the loss of the first derivative direction in the
// component's curl and Cother the second:
//
//	1D:  Ex, Hy      Cmain = z
//	cyl: Ep, Hp      Cmain = z, Cother = r
//	     Er, Hr      Cother = z
//	     Ez, Hz      Cother = r
type Material struct {
	InvEps [types.NumComponents][]float64
	Cmain  [types.NumComponents][]float64
	Cother [types.NumComponents][]float64
}

func NewUniform(v grid.Volume, eps float64) *Material {
	return NewMaterial(v, func(r, z float64) float64 { return eps })
}

// NewMaterial samples eps at the staggered position of every electric
// component sample.
func NewMaterial(v grid.Volume, eps func(r, z float64) float64) (ma *Material) {
	ma = &Material{}
	for _, c := range v.Components(types.EStuff) {
		ma.InvEps[c] = make([]float64, v.NTot())
		for r := 0; r < v.Rows(); r++ {
			for z := 0; z <= v.Nz; z++ {
				rr, zz := v.Position(c, r, z)
				e := eps(rr, zz)
				if e <= 0 {
					panic(fmt.Sprintf("non-positive permittivity %g at r=%g z=%g", e, rr, zz))
				}
				ma.InvEps[c][v.Index(r, z)] = 1 / e
			}
		}
	}
	return
}

func (ma *Material) Copy() (mc *Material) {
	mc = &Material{}
	for c := 0; c < types.NumComponents; c++ {
		mc.InvEps[c] = copyOrNil(ma.InvEps[c])
		mc.Cmain[c] = copyOrNil(ma.Cmain[c])
		mc.Cother[c] = copyOrNil(ma.Cother[c])
	}
	return
}

func copyOrNil(a []float64) []float64 {
	if a == nil {
		return nil
	}
	b := make([]float64, len(a))
	copy(b, a)
	return b
}

// SubZ extracts the coefficients of the global z slab [z0, z1] of v
func (ma *Material) SubZ(v grid.Volume, z0, z1 int) (ms *Material) {
	var (
		sub = v.SubZ(z0, z1)
	)
	slice := func(a []float64) (b []float64) {
		if a == nil {
			return nil
		}
		b = make([]float64, sub.NTot())
		for r := 0; r < v.Rows(); r++ {
			copy(b[sub.Index(r, 0):sub.Index(r, sub.Nz)+1], a[v.Index(r, z0):v.Index(r, z1)+1])
		}
		return
	}
	ms = &Material{}
	for c := 0; c < types.NumComponents; c++ {
		ms.InvEps[c] = slice(ma.InvEps[c])
		ms.Cmain[c] = slice(ma.Cmain[c])
		ms.Cother[c] = slice(ma.Cother[c])
	}
	return
}

func (ma *Material) HasPML(c types.Component) bool {
	return ma.Cmain[c] != nil || ma.Cother[c] != nil
}

// MixWith moves every coefficient the fraction f of the way towards o:
// new = (1-f)*old + f*o, so f = 1 lands exactly on o. Loss arrays missing
// on either side count as zero.
func (ma *Material) MixWith(o *Material, f float64) {
	for c := 0; c < types.NumComponents; c++ {
		mix(&ma.InvEps[c], o.InvEps[c], f)
		mix(&ma.Cmain[c], o.Cmain[c], f)
		mix(&ma.Cother[c], o.Cother[c], f)
	}
}

func mix(dst *[]float64, src []float64, f float64) {
	switch {
	case *dst == nil && src == nil:
		return
	case *dst == nil:
		*dst = make([]float64, len(src))
	}
	floats.Scale(1-f, *dst)
	if src != nil {
		floats.AddScaled(*dst, f, src)
	}
}
