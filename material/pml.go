package material

import (
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

// Arrays that damp z-directed and r-directed derivatives, see Material
func (ma *Material) zLoss(v grid.Volume, c types.Component) *[]float64 {
	switch c {
	case types.Ex, types.Hy, types.Ep, types.Hp:
		return &ma.Cmain[c]
	case types.Er, types.Hr:
		return &ma.Cother[c]
	}
	return nil
}

func (ma *Material) rLoss(v grid.Volume, c types.Component) *[]float64 {
	if v.Dim != types.DCyl {
		return nil
	}
	switch c {
	case types.Ep, types.Hp, types.Ez, types.Hz:
		return &ma.Cother[c]
	}
	return nil
}

// UsePMLZ adds quadratic-profile absorbing layers of the given thickness
// (in length units) at both z ends of v.
func (ma *Material) UsePMLZ(v grid.Volume, thickness, strength float64) {
	var (
		length = float64(v.Nz) / v.A
	)
	ma.addPML(v, thickness, strength, ma.zLoss, func(rr, zz float64) (d float64) {
		switch {
		case zz < thickness:
			d = thickness - zz
		case zz > length-thickness:
			d = zz - (length - thickness)
		}
		return
	})
}

// UsePMLR adds an absorbing layer at the outer radial wall of v
func (ma *Material) UsePMLR(v grid.Volume, thickness, strength float64) {
	var (
		rmax = float64(v.RShift()+v.Nr) / v.A
	)
	ma.addPML(v, thickness, strength, ma.rLoss, func(rr, zz float64) (d float64) {
		if rr > rmax-thickness {
			d = rr - (rmax - thickness)
		}
		return
	})
}

func (ma *Material) addPML(v grid.Volume, thickness, strength float64,
	lossFor func(grid.Volume, types.Component) *[]float64,
	depth func(rr, zz float64) float64) {
	if thickness <= 0 || strength == 0 {
		return
	}
	for c := types.Component(0); c < types.NumComponents; c++ {
		if !v.HasField(c) {
			continue
		}
		loss := lossFor(v, c)
		if loss == nil {
			continue
		}
		if *loss == nil {
			*loss = make([]float64, v.NTot())
		}
		for r := 0; r < v.Rows(); r++ {
			for z := 0; z <= v.Nz; z++ {
				d := depth(v.Position(c, r, z))
				if d > 0 {
					(*loss)[v.Index(r, z)] += strength * utils.POW(d/thickness, 2)
				}
			}
		}
	}
}
