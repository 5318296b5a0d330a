package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"

	"github.com/notargets/gofdtd/utils"
)

// TCP is a full-mesh transport between the ranks of a distributed run. Rank
// r listens on addrs[r], accepts connections from every higher rank and
// dials every lower one.
type TCP struct {
	rank, size int
	ln         net.Listener
	peers      []*tcpPeer
	mb         *utils.MailBox[[]float64] // Threads are ranks
	Log        logrus.FieldLogger
	closeOnce  sync.Once
}

type tcpPeer struct {
	rank int
	conn net.Conn
	wmu  sync.Mutex
}

const (
	frameHeader = 8
	dialTimeout = 2 * time.Second
	dialRetries = 20
)

// NewTCP connects rank to all of its peers. ln must already be listening on
// addrs[rank]; it may be nil for the highest rank, which accepts nothing.
func NewTCP(rank int, ln net.Listener, addrs []string, log logrus.FieldLogger) (tc *TCP, err error) {
	var (
		size = len(addrs)
	)
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("rank %d out of range [0,%d)", rank, size)
	}
	if ln == nil && rank < size-1 {
		return nil, fmt.Errorf("rank %d needs a listener for %d higher ranks", rank, size-1-rank)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	tc = &TCP{
		rank:  rank,
		size:  size,
		ln:    ln,
		peers: make([]*tcpPeer, size),
		mb:    utils.NewMailBox[[]float64](size),
		Log:   log.WithField("rank", rank),
	}
	accepted := make(chan error, 1)
	go func() { accepted <- tc.acceptHigher() }()
	for r := 0; r < rank; r++ {
		if err = tc.dialLower(r, addrs[r]); err != nil {
			tc.Close()
			return nil, err
		}
	}
	if err = <-accepted; err != nil {
		tc.Close()
		return nil, err
	}
	for _, p := range tc.peers {
		if p != nil {
			go tc.readLoop(p)
		}
	}
	tc.Log.WithField("size", size).Debug("tcp transport connected")
	return
}

func (tc *TCP) acceptHigher() error {
	for n := tc.rank + 1; n < tc.size; n++ {
		conn, err := tc.ln.Accept()
		if err != nil {
			return fmt.Errorf("rank %d accepting peers: %w", tc.rank, err)
		}
		var hello [4]byte
		if _, err = io.ReadFull(conn, hello[:]); err != nil {
			conn.Close()
			return fmt.Errorf("rank %d reading peer handshake: %w", tc.rank, err)
		}
		r := int(binary.LittleEndian.Uint32(hello[:]))
		if r <= tc.rank || r >= tc.size || tc.peers[r] != nil {
			conn.Close()
			return fmt.Errorf("rank %d: unexpected handshake from rank %d", tc.rank, r)
		}
		tc.peers[r] = &tcpPeer{rank: r, conn: conn}
	}
	return nil
}

func (tc *TCP) dialLower(r int, addr string) (err error) {
	var conn net.Conn
	err = backoff.RetryNotify(
		func() (err error) {
			conn, err = net.DialTimeout("tcp", addr, dialTimeout)
			return
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), dialRetries),
		func(err error, d time.Duration) {
			tc.Log.WithError(err).WithField("peer", r).Debugf("dial failed, retrying in %v", d)
		},
	)
	if err != nil {
		return fmt.Errorf("rank %d dialing rank %d at %s: %w", tc.rank, r, addr, err)
	}
	var hello [4]byte
	binary.LittleEndian.PutUint32(hello[:], uint32(tc.rank))
	if _, err = conn.Write(hello[:]); err != nil {
		conn.Close()
		return fmt.Errorf("rank %d handshake with rank %d: %w", tc.rank, r, err)
	}
	tc.peers[r] = &tcpPeer{rank: r, conn: conn}
	return
}

func (tc *TCP) readLoop(p *tcpPeer) {
	var (
		header [frameHeader]byte
		err    error
	)
	defer func() { tc.mb.HangUp(p.rank, err) }()
	for {
		if _, err = io.ReadFull(p.conn, header[:]); err != nil {
			return
		}
		tag := int(binary.LittleEndian.Uint32(header[0:4]))
		n := int(binary.LittleEndian.Uint32(header[4:8]))
		payload := make([]byte, 8*n)
		if _, err = io.ReadFull(p.conn, payload); err != nil {
			return
		}
		msg := make([]float64, n)
		for i := range msg {
			msg[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		tc.mb.PostMessage(p.rank, tc.rank, tag, msg)
		tc.mb.DeliverMyMessages(p.rank)
	}
}

func (tc *TCP) Rank() int { return tc.rank }
func (tc *TCP) Size() int { return tc.size }

func (tc *TCP) peer(r int) (*tcpPeer, error) {
	if r < 0 || r >= tc.size || r == tc.rank {
		return nil, fmt.Errorf("rank %d: no peer rank %d", tc.rank, r)
	}
	return tc.peers[r], nil
}

type sendRequest struct {
	errc chan error
}

func (sr *sendRequest) Wait() error { return <-sr.errc }

// Isend encodes buf immediately and writes it in the background
func (tc *TCP) Isend(buf []float64, dest, tag int) (Request, error) {
	p, err := tc.peer(dest)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, frameHeader+8*len(buf))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(tag))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(buf)))
	for i, val := range buf {
		binary.LittleEndian.PutUint64(frame[frameHeader+8*i:], math.Float64bits(val))
	}
	sr := &sendRequest{errc: make(chan error, 1)}
	go func() {
		p.wmu.Lock()
		defer p.wmu.Unlock()
		if _, err := p.conn.Write(frame); err != nil {
			sr.errc <- fmt.Errorf("send to rank %d tag %d: %w", dest, tag, err)
			return
		}
		sr.errc <- nil
	}()
	return sr, nil
}

func (tc *TCP) Irecv(buf []float64, src, tag int) (Request, error) {
	if _, err := tc.peer(src); err != nil {
		return nil, err
	}
	return &recvRequest{mb: tc.mb, rank: tc.rank, src: src, tag: tag, buf: buf}, nil
}

func (tc *TCP) Close() (err error) {
	tc.closeOnce.Do(func() {
		if tc.ln != nil {
			tc.ln.Close()
		}
		for _, p := range tc.peers {
			if p != nil {
				p.conn.Close()
			}
		}
	})
	return
}
