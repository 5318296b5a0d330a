package transport

import (
	"fmt"

	"github.com/notargets/gofdtd/utils"
)

// Hub connects a set of in-process ranks. Each rank is usually driven by
// its own goroutine, standing in for one process of a distributed run.
type Hub struct {
	size int
	mb   *utils.MailBox[[]float64]
}

func NewHub(size int) *Hub {
	if size < 1 {
		panic(fmt.Sprintf("hub needs at least one rank, have %d", size))
	}
	return &Hub{
		size: size,
		mb:   utils.NewMailBox[[]float64](size),
	}
}

func (h *Hub) Size() int { return h.size }

// Endpoint returns the transport seen by one rank of the hub
func (h *Hub) Endpoint(rank int) Transport {
	if rank < 0 || rank >= h.size {
		panic(fmt.Sprintf("rank %d out of range [0,%d)", rank, h.size))
	}
	return &endpoint{hub: h, rank: rank}
}

type endpoint struct {
	hub  *Hub
	rank int
}

func (ep *endpoint) Rank() int { return ep.rank }
func (ep *endpoint) Size() int { return ep.hub.size }

func (ep *endpoint) check(peer int) error {
	if peer < 0 || peer >= ep.hub.size {
		return fmt.Errorf("rank %d: peer %d out of range [0,%d)", ep.rank, peer, ep.hub.size)
	}
	return nil
}

// Isend copies buf into the peer's mailbox, so it completes immediately
func (ep *endpoint) Isend(buf []float64, dest, tag int) (Request, error) {
	if err := ep.check(dest); err != nil {
		return nil, err
	}
	msg := make([]float64, len(buf))
	copy(msg, buf)
	ep.hub.mb.PostMessage(ep.rank, dest, tag, msg)
	ep.hub.mb.DeliverMyMessages(ep.rank)
	return done{}, nil
}

func (ep *endpoint) Irecv(buf []float64, src, tag int) (Request, error) {
	if err := ep.check(src); err != nil {
		return nil, err
	}
	return &recvRequest{mb: ep.hub.mb, rank: ep.rank, src: src, tag: tag, buf: buf}, nil
}

// recvRequest takes a matching message out of the mailbox on Wait
type recvRequest struct {
	mb             *utils.MailBox[[]float64]
	rank, src, tag int
	buf            []float64
}

func (rr *recvRequest) Wait() error {
	msg, err := rr.mb.ReceiveMyMessage(rr.rank, rr.src, rr.tag)
	if err != nil {
		return fmt.Errorf("receive from rank %d tag %d: %w", rr.src, rr.tag, err)
	}
	if len(msg) != len(rr.buf) {
		return fmt.Errorf("receive from rank %d tag %d: have %d values, expected %d",
			rr.src, rr.tag, len(msg), len(rr.buf))
	}
	copy(rr.buf, msg)
	return nil
}

func errNoPeers(peer int) error {
	return fmt.Errorf("single process transport has no peer rank %d", peer)
}
