package fields

import (
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/material"
	"github.com/notargets/gofdtd/types"
)

// Cell addresses one sample of a chunk's field arrays. Halo connections
// are lists of cells, so the exchange never holds raw references into
// another chunk's storage.
type Cell struct {
	C types.Component
	I int
}

// Chunk is one z-slab of the simulation volume. Field and PML arrays are
// only allocated on the rank that owns the chunk; every rank keeps the
// metadata (volume, owner, connections) of all chunks.
type Chunk struct {
	v       grid.Volume
	zOffset int // Global z index of local sample zero
	proc    int
	mine    bool
	real    bool

	ma, newMa *material.Material

	// Indexed [component][quadrature], quadrature 1 only for complex fields
	f    [types.NumComponents][2][]float64
	fPML [types.NumComponents][2][]float64

	hSources, eSources []*Source

	// Indexed [field type][direction][peer chunk]
	connections [types.NumFieldTypes][types.NumConnectTypes][][]Cell
	phases      [types.NumFieldTypes][][]complex128 // Incoming only
}

func newChunk(v grid.Volume, zOffset, proc int, mine, real bool,
	ma *material.Material, numChunks int) (ch *Chunk) {
	ch = &Chunk{
		v:       v,
		zOffset: zOffset,
		proc:    proc,
		mine:    mine,
		real:    real,
		ma:      ma,
	}
	for ft := 0; ft < types.NumFieldTypes; ft++ {
		for ct := 0; ct < types.NumConnectTypes; ct++ {
			ch.connections[ft][ct] = make([][]Cell, numChunks)
		}
		ch.phases[ft] = make([][]complex128, numChunks)
	}
	if mine {
		for c := types.Component(0); c < types.NumComponents; c++ {
			if !v.HasField(c) {
				continue
			}
			for cmp := 0; cmp < ch.ncmp(); cmp++ {
				ch.f[c][cmp] = make([]float64, v.NTot())
			}
		}
		ch.allocatePML()
	}
	return
}

// ncmp is the number of stored quadratures
func (ch *Chunk) ncmp() int {
	if ch.real {
		return 1
	}
	return 2
}

// allocatePML adds split-field arrays for every component that has gained
// a loss coefficient
func (ch *Chunk) allocatePML() {
	for c := types.Component(0); c < types.NumComponents; c++ {
		if !ch.v.HasField(c) || !ch.ma.HasPML(c) || ch.fPML[c][0] != nil {
			continue
		}
		for cmp := 0; cmp < ch.ncmp(); cmp++ {
			ch.fPML[c][cmp] = make([]float64, ch.v.NTot())
		}
	}
}

func (ch *Chunk) Volume() grid.Volume { return ch.v }
func (ch *Chunk) ZOffset() int        { return ch.zOffset }
func (ch *Chunk) Proc() int           { return ch.proc }
func (ch *Chunk) IsMine() bool        { return ch.mine }

// IsReal reports whether the chunk stores only the real quadrature. It is
// fixed at construction: fields are real for 1D and m = 0 volumes unless a
// complex run was requested or a Bloch phase forces complex storage.
func (ch *Chunk) IsReal() bool { return ch.real }

func (ch *Chunk) Material() *material.Material { return ch.ma }

// PendingMaterial is the material being phased in, nil once the transition
// has completed
func (ch *Chunk) PendingMaterial() *material.Material { return ch.newMa }

// Field returns the storage of one quadrature of a component, nil when the
// component or quadrature is not stored
func (ch *Chunk) Field(c types.Component, cmp int) []float64 { return ch.f[c][cmp] }

func (ch *Chunk) PML(c types.Component, cmp int) []float64 { return ch.fPML[c][cmp] }

func (ch *Chunk) Sources(ft types.FieldType) []*Source {
	if ft == types.HStuff {
		return ch.hSources
	}
	return ch.eSources
}

// Connections returns the halo cells exchanged with peer chunk p
func (ch *Chunk) Connections(ft types.FieldType, ct types.ConnectType, p int) []Cell {
	return ch.connections[ft][ct][p]
}
