// Package fields advances Maxwell's equations on a staggered Yee grid, one
// z-slab chunk at a time, exchanging chunk halos through a pluggable
// transport after every half step.
package fields

import (
	"fmt"
	"math"
	"sync"

	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/material"
	"github.com/notargets/gofdtd/transport"
	"github.com/notargets/gofdtd/types"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

type Clock struct {
	T       int     // Completed steps
	PhaseIn int     // Remaining steps of a material transition
	Dt      float64 // Courant / resolution
}

func (ck Clock) Time() float64 { return float64(ck.T) * ck.Dt }

type FieldSet struct {
	v          grid.Volume
	chunks     []*Chunk
	clock      Clock
	commSizes  [types.NumFieldTypes][]int       // Cells per pair, pair = sender + receiver*numChunks
	commBlocks [types.NumFieldTypes][][]float64 // Two values per cell
	tr         transport.Transport
	pol        Polarization
	parallel   bool
	Log        logrus.FieldLogger
}

func (fs *FieldSet) Volume() grid.Volume            { return fs.v }
func (fs *FieldSet) Chunks() []*Chunk               { return fs.chunks }
func (fs *FieldSet) Clock() Clock                   { return fs.clock }
func (fs *FieldSet) Time() float64                  { return fs.clock.Time() }
func (fs *FieldSet) Transport() transport.Transport { return fs.tr }

// CommSize is the number of halo cells chunk from sends to chunk to
func (fs *FieldSet) CommSize(ft types.FieldType, to, from int) int {
	return fs.commSizes[ft][from+to*len(fs.chunks)]
}

func (fs *FieldSet) forEachMine(fn func(ch *Chunk)) {
	if !fs.parallel {
		for _, ch := range fs.chunks {
			if ch.mine {
				fn(ch)
			}
		}
		return
	}
	var wg sync.WaitGroup
	for _, ch := range fs.chunks {
		if !ch.mine {
			continue
		}
		wg.Add(1)
		go func(ch *Chunk) {
			defer wg.Done()
			fn(ch)
		}(ch)
	}
	wg.Wait()
}

// Step advances all fields by one time step
func (fs *FieldSet) Step() error {
	return fs.step((*Chunk).stepH, (*Chunk).stepE)
}

// StepRight advances the fields with the right-propagating shift in place
// of the curl. The rest of the sequence is the same as Step.
func (fs *FieldSet) StepRight() error {
	return fs.step((*Chunk).stepHRight, (*Chunk).stepERight)
}

func (fs *FieldSet) step(stepH, stepE func(*Chunk)) (err error) {
	var (
		tH = fs.clock.Time()
		tE = tH + 0.5*fs.clock.Dt
	)
	fs.phaseMaterial()

	fs.forEachMine(func(ch *Chunk) {
		stepH(ch)
		ch.stepSources(types.HStuff, tH)
	})
	if err = fs.stepBoundaries(types.HStuff); err != nil {
		return
	}

	fs.pol.PrepareStepEnergy()
	fs.pol.HalfStepEnergy()
	fs.forEachMine(func(ch *Chunk) {
		stepE(ch)
		ch.stepSources(types.EStuff, tE)
	})
	fs.pol.StepE()
	if err = fs.stepBoundaries(types.EStuff); err != nil {
		return
	}
	fs.pol.HalfStepEnergy()

	fs.pol.UpdateSaturation()
	fs.pol.StepItself()

	fs.clock.T++
	return
}

func (fs *FieldSet) phaseMaterial() {
	if fs.clock.PhaseIn <= 0 {
		return
	}
	phaseinTime := fs.clock.PhaseIn
	fs.forEachMine(func(ch *Chunk) { ch.phaseMaterial(phaseinTime) })
	fs.clock.PhaseIn--
	if fs.clock.PhaseIn == 0 {
		fs.Log.WithField("step", fs.clock.T).Info("material phase-in complete")
	}
}

// PhaseIn schedules a gradual transition to newMa over the next steps time
// steps. newMa covers the whole volume of the field set.
func (fs *FieldSet) PhaseIn(newMa *material.Material, steps int) error {
	if steps < 1 {
		return fmt.Errorf("phase-in needs at least one step, have %d", steps)
	}
	if newMa == nil {
		return fmt.Errorf("phase-in needs a target material")
	}
	for _, ch := range fs.chunks {
		ch.newMa = newMa.SubZ(fs.v, ch.zOffset, ch.zOffset+ch.v.Nz)
	}
	fs.clock.PhaseIn = steps
	fs.Log.WithField("steps", steps).Debug("material phase-in scheduled")
	return nil
}

// owner returns the chunk updating component c at global z sample z. Chunk
// edges are shared, the owner is the chunk whose update range includes z.
func (fs *FieldSet) owner(c types.Component, z int) (k int) {
	for k = range fs.chunks {
		var (
			z0 = fs.chunks[k].zOffset
			z1 = z0 + fs.chunks[k].v.Nz
		)
		if types.HalfZ(c) && z >= z0 && z < z1 {
			return
		}
		if !types.HalfZ(c) && z > z0 && z <= z1 {
			return
		}
	}
	// z = 0 for integer components, z = nz (the last halo) for half ones
	if types.HalfZ(c) {
		return len(fs.chunks) - 1
	}
	return 0
}

// AddSource adds a source with per-component weights at global sample
// (r, z). Integer and half-z components at a chunk edge are updated by
// different chunks, so the weights are split by owning chunk and each part
// is stored as its own source there. Ranks ignore the parts of chunks they
// do not own.
func (fs *FieldSet) AddSource(ft types.FieldType, r, z int, weights [types.NumComponents]complex128,
	env Envelope) error {
	if env == nil {
		return fmt.Errorf("source needs an envelope")
	}
	if r < 0 || r >= fs.v.Rows() || z < 0 || z > fs.v.Nz {
		return fmt.Errorf("source position (%d,%d) outside the volume", r, z)
	}
	var (
		owners []int // Distinct owning chunks in component order
		parts  = make(map[int]*[types.NumComponents]complex128)
	)
	for c := types.Component(0); c < types.NumComponents; c++ {
		if weights[c] == 0 {
			continue
		}
		if !fs.v.HasField(c) || c.FieldType() != ft {
			return fmt.Errorf("%v is not an %v component of a %v volume", c, ft, fs.v.Dim)
		}
		k := fs.owner(c, z)
		if parts[k] == nil {
			parts[k] = new([types.NumComponents]complex128)
			owners = append(owners, k)
		}
		parts[k][c] = weights[c]
	}
	if len(owners) == 0 {
		return fmt.Errorf("source has no non-zero weight")
	}
	for _, k := range owners {
		ch := fs.chunks[k]
		if !ch.mine {
			continue
		}
		ch.AddSource(ft, &Source{I: ch.v.Index(r, z-ch.zOffset), A: *parts[k], Env: env})
	}
	return nil
}

// AddPointSource drives a single component with amplitude amp
func (fs *FieldSet) AddPointSource(c types.Component, r, z int, amp complex128, env Envelope) error {
	if int(c) >= types.NumComponents {
		return fmt.Errorf("no such component %v", c)
	}
	var weights [types.NumComponents]complex128
	weights[c] = amp
	return fs.AddSource(c.FieldType(), r, z, weights, env)
}

// Initialize sets component c on every owned chunk from its physical
// position. Real fields keep only the real part.
func (fs *FieldSet) Initialize(c types.Component, fn func(r, z float64) complex128) error {
	if !fs.v.HasField(c) {
		return fmt.Errorf("%v is not a component of a %v volume", c, fs.v.Dim)
	}
	for _, ch := range fs.chunks {
		if !ch.mine {
			continue
		}
		for r := 0; r < ch.v.Rows(); r++ {
			for z := 0; z <= ch.v.Nz; z++ {
				rr, zz := fs.v.Position(c, r, z+ch.zOffset)
				val, i := fn(rr, zz), ch.v.Index(r, z)
				ch.f[c][0][i] = real(val)
				if !ch.real {
					ch.f[c][1][i] = imag(val)
				}
			}
		}
	}
	return nil
}

// MaxAbs is the largest magnitude of any stored quadrature of c on the
// chunks owned by this rank
func (fs *FieldSet) MaxAbs(c types.Component) (m float64) {
	for _, ch := range fs.chunks {
		if !ch.mine {
			continue
		}
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			if f := ch.f[c][cmp]; len(f) > 0 {
				m = math.Max(m, math.Max(floats.Max(f), -floats.Min(f)))
			}
		}
	}
	return
}

// Gather assembles quadrature cmp of c over the whole volume from the
// chunks owned by this rank. Samples of chunks owned elsewhere are zero.
func (fs *FieldSet) Gather(c types.Component, cmp int) (g []float64) {
	g = make([]float64, fs.v.NTot())
	for _, ch := range fs.chunks {
		f := ch.f[c][cmp]
		if !ch.mine || f == nil {
			continue
		}
		for r := 0; r < ch.v.Rows(); r++ {
			copy(g[fs.v.Index(r, ch.zOffset):fs.v.Index(r, ch.zOffset+ch.v.Nz)+1],
				f[ch.v.Index(r, 0):ch.v.Index(r, ch.v.Nz)+1])
		}
	}
	return
}

// Energy is a diagnostic sum of squares of all stored field samples on the
// chunks owned by this rank, with shared chunk edges counted once.
func (fs *FieldSet) Energy(ft types.FieldType) (e float64) {
	for _, c := range fs.v.Components(ft) {
		for cmp := 0; cmp < 2; cmp++ {
			g := fs.Gather(c, cmp)
			e += floats.Dot(g, g)
		}
	}
	return
}
