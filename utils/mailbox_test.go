package utils

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailBox(t *testing.T) {
	{ // Messages wait in the outbox until delivered, then come out by sender and tag
		mb := NewMailBox[string](3)
		mb.PostMessage(0, 2, 7, "a")
		mb.PostMessage(0, 2, 7, "b")
		mb.PostMessage(1, 2, 7, "c")
		mb.PostMessage(0, 1, 9, "d")
		assert.True(t, mb.MailFlag[0])
		mb.DeliverMyMessages(0)
		mb.DeliverMyMessages(1)
		assert.False(t, mb.MailFlag[0])
		for _, want := range []struct {
			me, from, tag int
			msg           string
		}{{2, 1, 7, "c"}, {2, 0, 7, "a"}, {1, 0, 9, "d"}, {2, 0, 7, "b"}} {
			msg, err := mb.ReceiveMyMessage(want.me, want.from, want.tag)
			require.NoError(t, err)
			assert.Equal(t, want.msg, msg)
		}
		mb.PostMessage(2, 0, 1, "e")
		mb.DeliverMyMessages(2)
		mb.ClearMyMessages(0)
		mb.HangUp(2, nil)
		_, err := mb.ReceiveMyMessage(0, 2, 1)
		assert.Error(t, err)
		assert.Panics(t, func() { mb.PostMessage(0, 3, 0, "") })
		assert.Panics(t, func() { NewMailBox[int](0) })
	}
	{ // A receive blocks until the message is delivered
		var (
			mb  = NewMailBox[[]float64](2)
			wg  sync.WaitGroup
			got []float64
			err error
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err = mb.ReceiveMyMessage(1, 0, 3)
		}()
		mb.PostMessage(0, 1, 3, []float64{1, 2})
		mb.DeliverMyMessages(0)
		wg.Wait()
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, got)
	}
	{ // Hanging up fails waiting receives, but delivered messages are still read first
		mb := NewMailBox[int](2)
		mb.PostMessage(1, 0, 0, 42)
		mb.DeliverMyMessages(1)
		gone := errors.New("connection reset")
		var (
			wg   sync.WaitGroup
			errs = make([]error, 2)
			vals = make([]int, 2)
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range vals {
				vals[i], errs[i] = mb.ReceiveMyMessage(0, 1, 0)
			}
		}()
		mb.HangUp(1, gone)
		wg.Wait()
		assert.NoError(t, errs[0])
		assert.Equal(t, 42, vals[0])
		assert.ErrorIs(t, errs[1], gone)
	}
}
