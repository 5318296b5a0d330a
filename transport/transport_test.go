package transport

import (
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failed struct{ err error }

func (f failed) Wait() error { return f.err }

func TestWaitAll(t *testing.T) {
	assert.NoError(t, WaitAll(nil))
	assert.NoError(t, WaitAll([]Request{done{}, done{}}))
	e1, e2 := errors.New("first"), errors.New("second")
	err := WaitAll([]Request{failed{e1}, done{}, failed{e2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestSingle(t *testing.T) {
	assert.Equal(t, 0, Single.Rank())
	assert.Equal(t, 1, Single.Size())
	_, err := Single.Isend([]float64{1}, 1, 0)
	assert.Error(t, err)
	_, err = Single.Irecv([]float64{1}, 1, 0)
	assert.Error(t, err)
}

func TestHub(t *testing.T) {
	{ // Messages are matched by source and tag, FIFO per key
		hub := NewHub(2)
		a, b := hub.Endpoint(0), hub.Endpoint(1)
		assert.Equal(t, 2, a.Size())
		assert.Equal(t, 1, b.Rank())
		out := []float64{1, 2, 3}
		s1, err := a.Isend(out, 1, 7)
		require.NoError(t, err)
		out[0] = 100 // Sends copy the buffer
		s2, err := a.Isend([]float64{4, 5, 6}, 1, 7)
		require.NoError(t, err)
		s3, err := a.Isend([]float64{9}, 1, 8)
		require.NoError(t, err)
		in1, in2, in3 := make([]float64, 3), make([]float64, 3), make([]float64, 1)
		r3, _ := b.Irecv(in3, 0, 8)
		r1, _ := b.Irecv(in1, 0, 7)
		r2, _ := b.Irecv(in2, 0, 7)
		require.NoError(t, WaitAll([]Request{s1, s2, s3, r3, r1, r2}))
		assert.Equal(t, []float64{1, 2, 3}, in1)
		assert.Equal(t, []float64{4, 5, 6}, in2)
		assert.Equal(t, []float64{9}, in3)
	}
	{ // Size mismatch is reported, bad ranks are rejected
		hub := NewHub(2)
		a, b := hub.Endpoint(0), hub.Endpoint(1)
		_, err := a.Isend([]float64{1, 2}, 1, 0)
		require.NoError(t, err)
		r, _ := b.Irecv(make([]float64, 3), 0, 0)
		assert.Error(t, r.Wait())
		_, err = a.Isend(nil, 2, 0)
		assert.Error(t, err)
		assert.Panics(t, func() { hub.Endpoint(5) })
		assert.Panics(t, func() { NewHub(0) })
	}
	{ // Receives posted before the send block until it arrives
		hub := NewHub(2)
		a, b := hub.Endpoint(0), hub.Endpoint(1)
		in := make([]float64, 2)
		r, _ := b.Irecv(in, 0, 3)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, _ := a.Isend([]float64{-1, 1}, 1, 3)
			_ = s.Wait()
		}()
		require.NoError(t, r.Wait())
		wg.Wait()
		assert.Equal(t, []float64{-1, 1}, in)
	}
}

func TestTCP(t *testing.T) {
	var (
		size  = 3
		lns   = make([]net.Listener, size)
		addrs = make([]string, size)
		tcs   = make([]*TCP, size)
		errs  = make([]error, size)
		log   = logrus.New()
		wg    sync.WaitGroup
	)
	for r := 0; r < size; r++ {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		lns[r], addrs[r] = ln, ln.Addr().String()
	}
	for r := 0; r < size; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			tcs[r], errs[r] = NewTCP(r, lns[r], addrs, log)
		}(r)
	}
	wg.Wait()
	for r := 0; r < size; r++ {
		require.NoError(t, errs[r])
		defer tcs[r].Close()
		assert.Equal(t, r, tcs[r].Rank())
		assert.Equal(t, size, tcs[r].Size())
	}
	// Every rank sends its rank id, scaled, to every other rank
	for r := 0; r < size; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			var (
				reqs []Request
				bufs = make([][]float64, size)
			)
			for p := 0; p < size; p++ {
				if p == r {
					continue
				}
				s, err := tcs[r].Isend([]float64{float64(r), 0.5 * float64(p), -0.0}, p, 10*r+p)
				if err != nil {
					errs[r] = err
					return
				}
				bufs[p] = make([]float64, 3)
				rq, err := tcs[r].Irecv(bufs[p], p, 10*p+r)
				if err != nil {
					errs[r] = err
					return
				}
				reqs = append(reqs, s, rq)
			}
			if errs[r] = WaitAll(reqs); errs[r] != nil {
				return
			}
			for p := 0; p < size; p++ {
				if p != r {
					assert.Equal(t, []float64{float64(p), 0.5 * float64(r), 0}, bufs[p])
				}
			}
		}(r)
	}
	wg.Wait()
	for r := 0; r < size; r++ {
		assert.NoError(t, errs[r])
	}
	_, err := tcs[0].Isend([]float64{1}, 0, 0)
	assert.Error(t, err)
	{ // A peer going away fails the outstanding receive instead of hanging
		rq, err := tcs[0].Irecv(make([]float64, 1), 2, 99)
		require.NoError(t, err)
		tcs[2].Close()
		assert.Error(t, rq.Wait())
	}
}
