package fields

import (
	"math"
	"math/cmplx"

	"github.com/notargets/gofdtd/types"
)

// Envelope is the complex time dependence of a source. An amplitude of
// exactly zero means the source is off at that time and is skipped.
type Envelope interface {
	Amplitude(t float64) complex128
}

type EnvelopeFunc func(t float64) complex128

func (ef EnvelopeFunc) Amplitude(t float64) complex128 { return ef(t) }

// Constant is a unit source switched on at Start
type Constant struct {
	Start float64
}

func (ce Constant) Amplitude(t float64) complex128 {
	if t < ce.Start {
		return 0
	}
	return 1
}

// Continuous is exp(-2πi·f·t), ramped on smoothly over Width after Start
type Continuous struct {
	Frequency, Start, Width float64
}

func (ce Continuous) Amplitude(t float64) complex128 {
	if t < ce.Start {
		return 0
	}
	ramp := 1.
	if dt := t - ce.Start; dt < ce.Width {
		s := math.Sin(0.5 * math.Pi * dt / ce.Width)
		ramp = s * s
	}
	return complex(ramp, 0) * cmplx.Exp(complex(0, -2*math.Pi*ce.Frequency*t))
}

// GaussianCutoff is the number of widths beyond which a Gaussian pulse is off
const GaussianCutoff = 5.

// Gaussian is a modulated pulse centred on Peak with standard deviation Width
type Gaussian struct {
	Frequency, Width, Peak float64
}

func (ge Gaussian) Amplitude(t float64) complex128 {
	x := (t - ge.Peak) / ge.Width
	if math.Abs(x) > GaussianCutoff {
		return 0
	}
	return complex(math.Exp(-0.5*x*x), 0) * cmplx.Exp(complex(0, -2*math.Pi*ge.Frequency*t))
}

// Source adds A[c]·Env(t) to every component c of its field type at the
// linear offset I of the owning chunk
type Source struct {
	I   int
	A   [types.NumComponents]complex128
	Env Envelope
}

// AddSource appends s to the chunk's sources of type ft. Sources are
// applied in insertion order.
func (ch *Chunk) AddSource(ft types.FieldType, s *Source) {
	if ft == types.HStuff {
		ch.hSources = append(ch.hSources, s)
		return
	}
	ch.eSources = append(ch.eSources, s)
}

func (ch *Chunk) stepSources(ft types.FieldType, t float64) {
	for _, s := range ch.Sources(ft) {
		A := s.Env.Amplitude(t)
		if A == 0 {
			continue
		}
		for _, c := range ch.v.Components(ft) {
			if s.A[c] == 0 {
				continue
			}
			val := A * s.A[c]
			ch.f[c][0][s.I] += real(val)
			if !ch.real {
				ch.f[c][1][s.I] += imag(val)
			}
		}
	}
}
