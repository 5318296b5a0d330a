package fields

import (
	"fmt"

	"github.com/notargets/gofdtd/transport"
	"github.com/notargets/gofdtd/types"
)

// pack copies the outgoing halo cells destined for chunk peer into buf,
// two values per cell
func (ch *Chunk) pack(ft types.FieldType, peer int, buf []float64) {
	for n, cell := range ch.connections[ft][types.Outgoing][peer] {
		buf[2*n] = ch.f[cell.C][0][cell.I]
		if ch.real {
			buf[2*n+1] = 0
		} else {
			buf[2*n+1] = ch.f[cell.C][1][cell.I]
		}
	}
}

// unpack writes the halo received from chunk peer, rotated by the phase of
// each connection
func (ch *Chunk) unpack(ft types.FieldType, peer int, buf []float64) {
	phases := ch.phases[ft][peer]
	for n, cell := range ch.connections[ft][types.Incoming][peer] {
		val := phases[n] * complex(buf[2*n], buf[2*n+1])
		ch.f[cell.C][0][cell.I] = real(val)
		if !ch.real {
			ch.f[cell.C][1][cell.I] = imag(val)
		}
	}
}

// stepBoundaries refreshes every halo of field type ft. Pair (i, j) is
// chunk j sending to chunk i and uses pair index j + i*numChunks as its
// buffer slot and message tag.
func (fs *FieldSet) stepBoundaries(ft types.FieldType) error {
	var (
		n      = len(fs.chunks)
		sizes  = fs.commSizes[ft]
		blocks = fs.commBlocks[ft]
		reqs   []transport.Request
	)
	// Pack from chunks we own
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pair := j + i*n
			if sizes[pair] > 0 && fs.chunks[j].mine {
				fs.chunks[j].pack(ft, i, blocks[pair])
			}
		}
	}
	// Only pairs spanning two ranks go through the transport. The posting
	// order is identical on every rank.
	for noti := 0; noti < n; noti++ {
		for j := 0; j < n; j++ {
			var (
				i        = (noti + j) % n
				pair     = j + i*n
				from, to = fs.chunks[j], fs.chunks[i]
			)
			if from.proc == to.proc || sizes[pair] == 0 {
				continue
			}
			if from.mine {
				req, err := fs.tr.Isend(blocks[pair], to.proc, pair)
				if err != nil {
					return fmt.Errorf("%v halo send chunk %d -> %d: %w", ft, j, i, err)
				}
				reqs = append(reqs, req)
			}
			if to.mine {
				req, err := fs.tr.Irecv(blocks[pair], from.proc, pair)
				if err != nil {
					return fmt.Errorf("%v halo receive chunk %d -> %d: %w", ft, j, i, err)
				}
				reqs = append(reqs, req)
			}
		}
	}
	if err := transport.WaitAll(reqs); err != nil {
		return fmt.Errorf("%v halo exchange at step %d: %w", ft, fs.clock.T, err)
	}
	// Unpack into chunks we own
	for i := 0; i < n; i++ {
		if !fs.chunks[i].mine {
			continue
		}
		for j := 0; j < n; j++ {
			pair := j + i*n
			if sizes[pair] > 0 {
				fs.chunks[i].unpack(ft, j, blocks[pair])
			}
		}
	}
	return nil
}
