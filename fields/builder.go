package fields

import (
	"fmt"
	"math/cmplx"

	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/material"
	"github.com/notargets/gofdtd/transport"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
	"github.com/sirupsen/logrus"
)

type Options struct {
	NumChunks int                 // Slabs along z, default 1
	Transport transport.Transport // Default transport.Single
	Boundary  types.BoundaryType  // Treatment of the two z ends
	BlochK    float64             // Bloch wave vector of a periodic run
	Complex   bool                // Store both quadratures even when real would do
	Parallel  bool                // Update owned chunks concurrently

	Polarization Polarization // Default NoPolarization
	Log          logrus.FieldLogger
}

// NewFieldSet splits v along z into chunks, assigns the chunks to the ranks
// of the transport in contiguous blocks and wires the halo connections
// between z neighbours. Only chunks owned by this rank allocate fields.
func NewFieldSet(v grid.Volume, ma *material.Material, opts Options) (fs *FieldSet, err error) {
	if err = v.Validate(); err != nil {
		return nil, err
	}
	if ma == nil {
		return nil, fmt.Errorf("field set needs a material")
	}
	var (
		n  = opts.NumChunks
		tr = opts.Transport
	)
	if n == 0 {
		n = 1
	}
	if n < 1 || n > v.Nz {
		return nil, fmt.Errorf("cannot split nz = %d into %d chunks", v.Nz, n)
	}
	if tr == nil {
		tr = transport.Single
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Polarization == nil {
		opts.Polarization = NoPolarization{}
	}
	isReal := !opts.Complex && (v.Dim == types.D1 || v.M == 0) &&
		!(opts.Boundary == types.Periodic && opts.BlochK != 0)
	fs = &FieldSet{
		v:        v,
		chunks:   make([]*Chunk, n),
		clock:    Clock{Dt: Courant / v.A},
		tr:       tr,
		pol:      opts.Polarization,
		parallel: opts.Parallel,
		Log:      opts.Log.WithField("rank", tr.Rank()),
	}
	var (
		zParts = utils.NewPartitionMap(n, v.Nz)
		procs  = utils.NewPartitionMap(tr.Size(), n)
	)
	for k := 0; k < n; k++ {
		z0, z1 := zParts.GetBucketRange(k)
		proc, _, _ := procs.GetBucket(k)
		fs.chunks[k] = newChunk(v.SubZ(z0, z1), z0, proc, proc == tr.Rank(), isReal,
			ma.SubZ(v, z0, z1), n)
	}
	for ft := 0; ft < types.NumFieldTypes; ft++ {
		fs.commSizes[ft] = make([]int, n*n)
		fs.commBlocks[ft] = make([][]float64, n*n)
	}
	for k := 0; k+1 < n; k++ {
		if err = fs.connectZ(k, k+1, 1, 1); err != nil {
			return nil, err
		}
	}
	if opts.Boundary == types.Periodic {
		var (
			L     = float64(v.Nz) / v.A
			phase = cmplx.Exp(complex(0, opts.BlochK*L))
		)
		if err = fs.connectZ(n-1, 0, phase, cmplx.Conj(phase)); err != nil {
			return nil, err
		}
	}
	fs.Log.WithFields(logrus.Fields{
		"dim":    v.Dim,
		"chunks": n,
		"ranks":  tr.Size(),
		"real":   isReal,
	}).Debug("field set built")
	return
}

// connectZ joins the high z edge of chunk lo to the low z edge of chunk hi.
// Half-z components flow from hi into lo's halo at z = nz, the others from
// lo into hi's halo at z = 0. toLo and toHi are the phases applied on
// arrival.
func (fs *FieldSet) connectZ(lo, hi int, toLo, toHi complex128) (err error) {
	var (
		vl, vh = fs.chunks[lo].v, fs.chunks[hi].v
	)
	for ft := types.FieldType(0); ft < types.NumFieldTypes; ft++ {
		var (
			inLo, outHi, inHi, outLo []Cell
		)
		for _, c := range vl.Components(ft) {
			for r := 0; r < vl.Rows(); r++ {
				if types.HalfZ(c) {
					inLo = append(inLo, Cell{c, vl.Index(r, vl.Nz)})
					outHi = append(outHi, Cell{c, vh.Index(r, 0)})
				} else {
					inHi = append(inHi, Cell{c, vh.Index(r, 0)})
					outLo = append(outLo, Cell{c, vl.Index(r, vl.Nz)})
				}
			}
		}
		if err = fs.Connect(ft, lo, hi, inLo, outHi, constPhases(len(inLo), toLo)); err != nil {
			return
		}
		if err = fs.Connect(ft, hi, lo, inHi, outLo, constPhases(len(inHi), toHi)); err != nil {
			return
		}
	}
	return
}

func constPhases(n int, phase complex128) (p []complex128) {
	p = make([]complex128, n)
	for i := range p {
		p[i] = phase
	}
	return
}

// Connect registers halo cells of chunk to that are filled from cells of
// chunk from, multiplied by phases. Connections accumulate in call order,
// which fixes the buffer layout of the pair on every rank.
func (fs *FieldSet) Connect(ft types.FieldType, to, from int, in, out []Cell, phases []complex128) error {
	n := len(fs.chunks)
	if to < 0 || to >= n || from < 0 || from >= n {
		return fmt.Errorf("connection %d -> %d outside %d chunks", from, to, n)
	}
	if len(in) != len(out) || len(phases) != len(in) {
		return fmt.Errorf("connection %d -> %d: %d incoming, %d outgoing cells and %d phases",
			from, to, len(in), len(out), len(phases))
	}
	check := func(ch *Chunk, cells []Cell) error {
		for _, cell := range cells {
			if !ch.v.HasField(cell.C) || cell.C.FieldType() != ft ||
				cell.I < 0 || cell.I >= ch.v.NTot() {
				return fmt.Errorf("invalid %v cell %v[%d]", ft, cell.C, cell.I)
			}
		}
		return nil
	}
	if err := check(fs.chunks[to], in); err != nil {
		return err
	}
	if err := check(fs.chunks[from], out); err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	var (
		rcv, snd = fs.chunks[to], fs.chunks[from]
		pair     = from + to*n
	)
	rcv.connections[ft][types.Incoming][from] = append(rcv.connections[ft][types.Incoming][from], in...)
	rcv.phases[ft][from] = append(rcv.phases[ft][from], phases...)
	snd.connections[ft][types.Outgoing][to] = append(snd.connections[ft][types.Outgoing][to], out...)
	fs.commSizes[ft][pair] += len(in)
	fs.commBlocks[ft][pair] = make([]float64, 2*fs.commSizes[ft][pair])
	return nil
}
