package utils

import (
	"fmt"
	"sync"
)

// MailKey matches a message to a receive: the sending thread and a tag
type MailKey struct {
	From, Tag int
}

type taggedMsg[T any] struct {
	tag int
	msg T
}

// MailBox passes messages between NP threads. A thread posts messages into
// its outbox and delivers them in one batch; the receiver takes them out by
// sender and tag, in posting order, blocking until one is available.
type MailBox[T any] struct {
	NP        int
	mu        sync.Mutex
	arrived   *sync.Cond
	PostMsgQs []map[int][]taggedMsg[T] // One for each thread, key is target thread
	inboxes   []map[MailKey][]T        // One for each thread
	MailFlag  []bool                   // Thread has undelivered messages in its outbox
	hungUp    []error                  // Set once a thread will send no more
}

func NewMailBox[T any](NP int) *MailBox[T] {
	if NP < 1 {
		panic(fmt.Sprintf("mailbox needs at least one thread, have %d", NP))
	}
	mb := &MailBox[T]{
		NP:        NP,
		PostMsgQs: make([]map[int][]taggedMsg[T], NP),
		inboxes:   make([]map[MailKey][]T, NP),
		MailFlag:  make([]bool, NP),
		hungUp:    make([]error, NP),
	}
	mb.arrived = sync.NewCond(&mb.mu)
	for n := 0; n < NP; n++ {
		mb.PostMsgQs[n] = make(map[int][]taggedMsg[T])
		mb.inboxes[n] = make(map[MailKey][]T)
	}
	return mb
}

func (mb *MailBox[T]) checkThread(thread int) {
	if thread < 0 || thread >= mb.NP {
		panic(fmt.Sprintf("thread %d out of bounds [0,%d)", thread, mb.NP))
	}
}

func (mb *MailBox[T]) PostMessage(myThread, targetThread, tag int, msg T) {
	mb.checkThread(myThread)
	mb.checkThread(targetThread)
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.PostMsgQs[myThread][targetThread] = append(mb.PostMsgQs[myThread][targetThread],
		taggedMsg[T]{tag: tag, msg: msg})
	mb.MailFlag[myThread] = true
}

// DeliverMyMessages moves everything posted by myThread into the inboxes of
// its targets and wakes waiting receivers
func (mb *MailBox[T]) DeliverMyMessages(myThread int) {
	mb.checkThread(myThread)
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if !mb.MailFlag[myThread] {
		return
	}
	for targetThread, msgs := range mb.PostMsgQs[myThread] {
		for _, m := range msgs {
			key := MailKey{From: myThread, Tag: m.tag}
			mb.inboxes[targetThread][key] = append(mb.inboxes[targetThread][key], m.msg)
		}
		delete(mb.PostMsgQs[myThread], targetThread)
	}
	mb.MailFlag[myThread] = false
	mb.arrived.Broadcast()
}

// ReceiveMyMessage blocks until a message from thread from with tag is
// delivered to myThread. It fails once from has hung up and nothing matching
// is left.
func (mb *MailBox[T]) ReceiveMyMessage(myThread, from, tag int) (msg T, err error) {
	mb.checkThread(myThread)
	mb.checkThread(from)
	mb.mu.Lock()
	defer mb.mu.Unlock()
	key := MailKey{From: from, Tag: tag}
	for {
		if q := mb.inboxes[myThread][key]; len(q) != 0 {
			msg = q[0]
			if len(q) == 1 {
				delete(mb.inboxes[myThread], key)
			} else {
				mb.inboxes[myThread][key] = q[1:]
			}
			return
		}
		if mb.hungUp[from] != nil {
			err = mb.hungUp[from]
			return
		}
		mb.arrived.Wait()
	}
}

// HangUp records that thread will deliver no more messages, failing
// receives that would otherwise wait for it forever
func (mb *MailBox[T]) HangUp(thread int, err error) {
	mb.checkThread(thread)
	if err == nil {
		err = fmt.Errorf("thread %d hung up", thread)
	}
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.hungUp[thread] == nil {
		mb.hungUp[thread] = err
	}
	mb.arrived.Broadcast()
}

// ClearMyMessages drops everything delivered to myThread
func (mb *MailBox[T]) ClearMyMessages(myThread int) {
	mb.checkThread(myThread)
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.inboxes[myThread] = make(map[MailKey][]T)
}
