// Package transport moves halo buffers between the processes of a
// distributed run. Only point-to-point non-blocking send/receive of float64
// buffers and a wait-for-all primitive are needed by the field solver.
package transport

import (
	"go.uber.org/multierr"
)

// Request is a posted transfer. Wait blocks until it has completed; the
// buffer handed to Isend/Irecv must not be touched before Wait returns.
type Request interface {
	Wait() error
}

type Transport interface {
	Rank() int
	Size() int
	// Isend posts a send of buf to rank dest, matched by tag
	Isend(buf []float64, dest, tag int) (Request, error)
	// Irecv posts a receive into buf from rank src, matched by tag
	Irecv(buf []float64, src, tag int) (Request, error)
}

// WaitAll waits for every request, even after a failure, and returns all of
// the failures combined.
func WaitAll(reqs []Request) (err error) {
	for _, req := range reqs {
		err = multierr.Append(err, req.Wait())
	}
	return
}

type done struct{}

func (done) Wait() error { return nil }

type single struct{}

// Single is the transport of a run that lives entirely in one process
var Single Transport = single{}

func (single) Rank() int { return 0 }
func (single) Size() int { return 1 }

func (single) Isend(buf []float64, dest, tag int) (Request, error) {
	return nil, errNoPeers(dest)
}

func (single) Irecv(buf []float64, src, tag int) (Request, error) {
	return nil, errNoPeers(src)
}
