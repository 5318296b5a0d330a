package fields

import (
	"fmt"

	"github.com/notargets/gofdtd/types"
)

// The right-propagating update replaces the curl by a one-cell shift of the
// partner component. It ignores losses, materials and the axis rows, and
// is only meaningful for transport tests of the exchange machinery.

func (ch *Chunk) stepHRight() {
	for cmp := 0; cmp < ch.ncmp(); cmp++ {
		var (
			v      = ch.v
			nz, nr = v.Nz, v.Nr
			stride = nz + 1
		)
		switch v.Dim {
		case types.D1:
			hy, ex := ch.f[types.Hy][cmp], ch.f[types.Ex][cmp]
			copy(hy[:nz], ex[:nz])
		case types.DCyl:
			var (
				hr, hp, hz = ch.f[types.Hr][cmp], ch.f[types.Hp][cmp], ch.f[types.Hz][cmp]
				er, ep, ez = ch.f[types.Er][cmp], ch.f[types.Ep][cmp], ch.f[types.Ez][cmp]
			)
			for r := ch.rstart1(); r <= nr; r++ {
				ir := r * stride
				copy(hr[ir:ir+nz], ep[ir:ir+nz])
			}
			for r := ch.rstart0(); r < nr; r++ {
				ir := r * stride
				copy(hp[ir:ir+nz], ez[ir+stride:ir+stride+nz])
				copy(hz[ir+1:ir+nz+1], er[ir+1:ir+nz+1])
			}
		default:
			panic(fmt.Sprintf("unsupported dimension %v in H update", v.Dim))
		}
	}
}

func (ch *Chunk) stepERight() {
	for cmp := 0; cmp < ch.ncmp(); cmp++ {
		var (
			v      = ch.v
			nz, nr = v.Nz, v.Nr
			stride = nz + 1
		)
		switch v.Dim {
		case types.D1:
			hy, ex := ch.f[types.Hy][cmp], ch.f[types.Ex][cmp]
			copy(ex[1:nz+1], hy[0:nz])
		case types.DCyl:
			var (
				hr, hp, hz = ch.f[types.Hr][cmp], ch.f[types.Hp][cmp], ch.f[types.Hz][cmp]
				er, ep, ez = ch.f[types.Er][cmp], ch.f[types.Ep][cmp], ch.f[types.Ez][cmp]
			)
			for r := ch.rstart1(); r <= nr; r++ {
				ir := r * stride
				copy(ep[ir+1:ir+nz+1], hz[ir-stride+1:ir-stride+nz+1])
				copy(ez[ir:ir+nz], hr[ir:ir+nz])
			}
			for r := ch.rstart0(); r < nr; r++ {
				ir := r * stride
				copy(er[ir+1:ir+nz+1], hp[ir:ir+nz])
			}
		default:
			panic(fmt.Sprintf("unsupported dimension %v in E update", v.Dim))
		}
	}
}
