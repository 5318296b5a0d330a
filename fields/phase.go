package fields

import (
	"github.com/notargets/gofdtd/types"
)

// phaseMaterial advances a pending material transition by one step. The
// electric fields are converted to displacement with the current inverse
// permittivity, the material is blended 1/phaseinTime of the way towards
// the target and the fields are converted back, so D is continuous across
// the change. The pending material is dropped once the blend reaches it.
func (ch *Chunk) phaseMaterial(phaseinTime int) {
	if ch.newMa == nil || phaseinTime <= 0 {
		return
	}
	ch.scaleElectric(func(f, inveps float64) float64 { return f / inveps })
	ch.ma.MixWith(ch.newMa, 1/float64(phaseinTime))
	ch.allocatePML()
	ch.scaleElectric(func(f, inveps float64) float64 { return f * inveps })
	if phaseinTime == 1 {
		ch.newMa = nil
	}
}

func (ch *Chunk) scaleElectric(op func(f, inveps float64) float64) {
	for _, c := range ch.v.Components(types.EStuff) {
		inveps := ch.ma.InvEps[c]
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			for _, arr := range [][]float64{ch.f[c][cmp], ch.fPML[c][cmp]} {
				for i := range arr {
					arr[i] = op(arr[i], inveps[i])
				}
			}
		}
	}
}
