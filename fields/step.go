package fields

import (
	"fmt"

	"github.com/notargets/gofdtd/types"
)

// Courant is c·dt/dx, fixed for every volume
const Courant = 0.5

// it multiplies a complex field sample by the imaginary unit in the
// stencil's convention, returning quadrature cmp of the product. Real
// fields have no other quadrature and contribute zero.
func it(cmp int, f [2][]float64, i int) float64 {
	if f[1-cmp] == nil {
		return 0
	}
	return float64(1-2*cmp) * f[1-cmp][i]
}

// at reads an optional loss array
func at(C []float64, i int) float64 {
	if C == nil {
		return 0
	}
	return C[i]
}

// First radial rows updated by the general loops, below them the rows are
// inside the m/r singularity or handled by the axis policy
func (ch *Chunk) rstart0() int { return max(0, ch.v.M-ch.v.RShift()-1) }
func (ch *Chunk) rstart1() int { return max(1, ch.v.M-ch.v.RShift()) }

func (ch *Chunk) stepH() {
	switch ch.v.Dim {
	case types.D1:
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			ch.stepH1D(cmp)
		}
	case types.DCyl:
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			ch.stepHCyl(cmp)
		}
	default:
		panic(fmt.Sprintf("unsupported dimension %v in H update", ch.v.Dim))
	}
}

func (ch *Chunk) stepE() {
	switch ch.v.Dim {
	case types.D1:
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			ch.stepE1D(cmp)
		}
	case types.DCyl:
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			ch.stepECyl(cmp)
		}
	default:
		panic(fmt.Sprintf("unsupported dimension %v in E update", ch.v.Dim))
	}
}

func (ch *Chunk) stepH1D(cmp int) {
	var (
		c      = Courant
		nz     = ch.v.Nz
		hy, ex = ch.f[types.Hy][cmp], ch.f[types.Ex][cmp]
	)
	if C := ch.ma.Cmain[types.Hy]; C != nil {
		for z := 0; z < nz; z++ {
			oooC := 1 / (1 + 0.5*C[z])
			hy[z] += oooC * (-c*(ex[z+1]-ex[z]) - C[z]*hy[z])
		}
		return
	}
	for z := 0; z < nz; z++ {
		hy[z] += -c * (ex[z+1] - ex[z])
	}
}

func (ch *Chunk) stepE1D(cmp int) {
	var (
		c      = Courant
		nz     = ch.v.Nz
		hy, ex = ch.f[types.Hy][cmp], ch.f[types.Ex][cmp]
		inveps = ch.ma.InvEps[types.Ex]
	)
	if C := ch.ma.Cmain[types.Ex]; C != nil {
		for z := 1; z <= nz; z++ {
			ipc := inveps[z] / (1 + 0.5*inveps[z]*C[z])
			ex[z] += ipc * (-c*(hy[z]-hy[z-1]) - C[z]*ex[z])
		}
		return
	}
	for z := 1; z <= nz; z++ {
		ex[z] += -c * inveps[z] * (hy[z] - hy[z-1])
	}
}

func (ch *Chunk) stepHCyl(cmp int) {
	var (
		c          = Courant
		v          = ch.v
		nz, nr     = v.Nz, v.Nr
		m          = float64(v.M)
		rs         = v.RShift()
		stride     = nz + 1
		r0, r1     = ch.rstart0(), ch.rstart1()
		hr, hp, hz = ch.f[types.Hr][cmp], ch.f[types.Hp][cmp], ch.f[types.Hz][cmp]
		er, ep, ez = ch.f[types.Er][cmp], ch.f[types.Ep][cmp], ch.f[types.Ez][cmp]
		ma         = ch.ma
	)
	// Hr
	if Czhr := ma.Cother[types.Hr]; Czhr != nil {
		pml := ch.fPML[types.Hr][cmp]
		for r := r1; r <= nr; r++ {
			mor := m / float64(rs+r)
			for z, i := 0, r*stride; z < nz; z, i = z+1, i+1 {
				oooC := 1 / (1 + 0.5*Czhr[i])
				dhrp := c * (-it(cmp, ch.f[types.Ez], i) * mor)
				hrz := hr[i] - pml[i]
				pml[i] += dhrp
				hr[i] += dhrp + oooC*(c*(ep[i+1]-ep[i])-Czhr[i]*hrz)
			}
		}
	} else {
		for r := r1; r <= nr; r++ {
			mor := m / float64(rs+r)
			for z, i := 0, r*stride; z < nz; z, i = z+1, i+1 {
				hr[i] += c * ((ep[i+1] - ep[i]) - it(cmp, ch.f[types.Ez], i)*mor)
			}
		}
	}
	// Hp
	if Czhp, Crhp := ma.Cmain[types.Hp], ma.Cother[types.Hp]; Czhp != nil || Crhp != nil {
		pml := ch.fPML[types.Hp][cmp]
		for r := r0; r < nr; r++ {
			for z, i := 0, r*stride; z < nz; z, i = z+1, i+1 {
				cz, cr := at(Czhp, i), at(Crhp, i)
				dhpz := 1 / (1 + 0.5*cz) * (-c*(er[i+1]-er[i]) - cz*pml[i])
				hpr := hp[i] - pml[i]
				pml[i] += dhpz
				hp[i] += dhpz + 1/(1+0.5*cr)*(c*(ez[i+stride]-ez[i])-cr*hpr)
			}
		}
	} else {
		for r := r0; r < nr; r++ {
			for z, i := 0, r*stride; z < nz; z, i = z+1, i+1 {
				hp[i] += c * ((ez[i+stride] - ez[i]) - (er[i+1] - er[i]))
			}
		}
	}
	// Hz
	if Crhz := ma.Cother[types.Hz]; Crhz != nil {
		pml := ch.fPML[types.Hz][cmp]
		for r := r0; r < nr; r++ {
			rr := float64(rs + r)
			oorph := 1 / (rr + 0.5)
			morph := m * oorph
			for z, i := 1, r*stride+1; z <= nz; z, i = z+1, i+1 {
				oooC := 1 / (1 + 0.5*Crhz[i])
				dhzr := oooC * (-c*(ep[i+stride]*(rr+1)-ep[i]*rr)*oorph - Crhz[i]*pml[i])
				pml[i] += dhzr
				hz[i] += dhzr + c*(it(cmp, ch.f[types.Er], i)*morph)
			}
		}
	} else {
		for r := r0; r < nr; r++ {
			rr := float64(rs + r)
			oorph := 1 / (rr + 0.5)
			morph := m * oorph
			for z, i := 1, r*stride+1; z <= nz; z, i = z+1, i+1 {
				hz[i] += c * (it(cmp, ch.f[types.Er], i)*morph - (ep[i+stride]*(rr+1)-ep[i]*rr)*oorph)
			}
		}
	}
	// Rows at and near the axis
	switch {
	case v.M == 0:
	case v.M == 1 && v.OriginCentered():
		// Ez/r at r = 0 is taken from the first row off the axis
		if Czhr := ma.Cother[types.Hr]; Czhr != nil {
			pml := ch.fPML[types.Hr][cmp]
			for z := 0; z < nz; z++ {
				oooC := 1 / (1 + 0.5*Czhr[z])
				dhrp := c * (-it(cmp, ch.f[types.Ez], z+stride))
				hrz := hr[z] - pml[z]
				pml[z] += dhrp
				hr[z] += dhrp + oooC*(c*(ep[z+1]-ep[z])-Czhr[z]*hrz)
			}
		} else {
			for z := 0; z < nz; z++ {
				hr[z] += c * ((ep[z+1] - ep[z]) - it(cmp, ch.f[types.Ez], z+stride))
			}
		}
	default:
		for r := 0; r <= nr && rs+r < v.M; r++ {
			row := hr[r*stride : (r+1)*stride]
			clear(row)
			if pml := ch.fPML[types.Hr][cmp]; pml != nil {
				clear(pml[r*stride : (r+1)*stride])
			}
		}
	}
}

func (ch *Chunk) stepECyl(cmp int) {
	var (
		c          = Courant
		v          = ch.v
		nz, nr     = v.Nz, v.Nr
		m          = float64(v.M)
		rs         = v.RShift()
		stride     = nz + 1
		r0, r1     = ch.rstart0(), ch.rstart1()
		hr, hp, hz = ch.f[types.Hr][cmp], ch.f[types.Hp][cmp], ch.f[types.Hz][cmp]
		er, ep, ez = ch.f[types.Er][cmp], ch.f[types.Ep][cmp], ch.f[types.Ez][cmp]
		ma         = ch.ma
		ieR        = ma.InvEps[types.Er]
		ieP        = ma.InvEps[types.Ep]
		ieZ        = ma.InvEps[types.Ez]
	)
	// Ep
	if Czep, Crep := ma.Cmain[types.Ep], ma.Cother[types.Ep]; Czep != nil || Crep != nil {
		pml := ch.fPML[types.Ep][cmp]
		for r := r1; r <= nr; r++ {
			for z, i := 1, r*stride+1; z <= nz; z, i = z+1, i+1 {
				ie := ieP[i]
				cz, cr := at(Czep, i), at(Crep, i)
				ipcz := ie / (1 + 0.5*ie*cz)
				ipcr := ie / (1 + 0.5*ie*cr)
				depz := ipcz * (c*(hr[i]-hr[i-1]) - cz*pml[i])
				epr := ep[i] - pml[i]
				pml[i] += depz
				ep[i] += depz + ipcr*(-c*(hz[i]-hz[i-stride])-cr*epr)
			}
		}
	} else {
		for r := r1; r <= nr; r++ {
			for z, i := 1, r*stride+1; z <= nz; z, i = z+1, i+1 {
				ep[i] += c * ieP[i] * ((hr[i] - hr[i-1]) - (hz[i] - hz[i-stride]))
			}
		}
	}
	// Ez
	if Crez := ma.Cother[types.Ez]; Crez != nil {
		pml := ch.fPML[types.Ez][cmp]
		for r := r1; r <= nr; r++ {
			rr := float64(rs + r)
			oor := 1 / rr
			mor := m * oor
			for z, i := 0, r*stride; z < nz; z, i = z+1, i+1 {
				ie := ieZ[i]
				ipc := ie / (1 + 0.5*ie*Crez[i])
				dezr := ipc * (c*(hp[i]*(rr+0.5)-hp[i-stride]*(rr-0.5))*oor - Crez[i]*pml[i])
				pml[i] += dezr
				ez[i] += dezr + c*ie*(-it(cmp, ch.f[types.Hr], i)*mor)
			}
		}
	} else {
		for r := r1; r <= nr; r++ {
			rr := float64(rs + r)
			oor := 1 / rr
			mor := m * oor
			for z, i := 0, r*stride; z < nz; z, i = z+1, i+1 {
				ez[i] += c * ieZ[i] * ((hp[i]*(rr+0.5)-hp[i-stride]*(rr-0.5))*oor - it(cmp, ch.f[types.Hr], i)*mor)
			}
		}
	}
	// Er
	if Czer := ma.Cother[types.Er]; Czer != nil {
		pml := ch.fPML[types.Er][cmp]
		for r := r0; r < nr; r++ {
			morph := m / (float64(rs+r) + 0.5)
			for z, i := 1, r*stride+1; z <= nz; z, i = z+1, i+1 {
				ie := ieR[i]
				ipc := ie / (1 + 0.5*ie*Czer[i])
				derp := c * ie * (it(cmp, ch.f[types.Hz], i) * morph)
				erz := er[i] - pml[i]
				pml[i] += derp
				er[i] += derp + ipc*(-c*(hp[i]-hp[i-1])-Czer[i]*erz)
			}
		}
	} else {
		for r := r0; r < nr; r++ {
			morph := m / (float64(rs+r) + 0.5)
			for z, i := 1, r*stride+1; z <= nz; z, i = z+1, i+1 {
				er[i] += c * ieR[i] * (it(cmp, ch.f[types.Hz], i)*morph - (hp[i] - hp[i-1]))
			}
		}
	}
	// Rows at and near the axis
	switch {
	case v.M == 0 && v.OriginCentered():
		for z := 0; z <= nz; z++ {
			ez[z] += c * ieZ[z] * hp[z]
		}
	case v.M == 1 && v.OriginCentered():
		if Czep := ma.Cmain[types.Ep]; Czep != nil {
			pml := ch.fPML[types.Ep][cmp]
			for z := 1; z <= nz; z++ {
				ie := ieP[z]
				ipcz := ie / (1 + 0.5*ie*Czep[z])
				depz := ipcz * (c*(hr[z]-hr[z-1]) - Czep[z]*pml[z])
				pml[z] += depz
				ep[z] += depz + c*ie*(-hz[z]*2)
			}
		} else {
			for z := 1; z <= nz; z++ {
				ep[z] += c * ieP[z] * ((hr[z] - hr[z-1]) - hz[z]*2)
			}
		}
	default:
		for r := 0; r <= nr && rs+r < v.M; r++ {
			for _, cc := range []types.Component{types.Ep, types.Ez} {
				clear(ch.f[cc][cmp][r*stride : (r+1)*stride])
				if pml := ch.fPML[cc][cmp]; pml != nil {
					clear(pml[r*stride : (r+1)*stride])
				}
			}
		}
	}
}
