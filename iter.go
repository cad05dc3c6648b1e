// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

// Iter receives messages from a queue until a receive reports that it
// would block. On a non-blocking handle it drains the queue and stops;
// on a blocking handle it never stops on its own.
//
// The maximum message length is captured once when the Iter is created.
// If that attribute query failed, the length is zero and every receive
// fails predictably on the undersized buffer instead of silently
// succeeding.
type Iter struct {
	q         *Queue
	maxMsgLen int
	err       error
	done      bool
}

// Iter returns an iterator over the messages of the queue.
// The handle stays owned by the caller.
func (q *Queue) Iter() *Iter {
	it := &Iter{q: q}
	if attrs, err := q.Attributes(); err == nil {
		it.maxMsgLen = attrs.MaxMsgLen
	}
	return it
}

// Next receives the next message. It returns ok=false when the queue
// reports it would block, or when any other receive error occurs; in
// the latter case the error is available through Err.
func (it *Iter) Next() (prio uint, msg []byte, ok bool) {
	if it.done {
		return 0, nil, false
	}
	buf := make([]byte, it.maxMsgLen)
	prio, n, err := it.q.Receive(buf)
	if err != nil {
		it.done = true
		if KindOf(err) != KindWouldBlock {
			it.err = err
		}
		return 0, nil, false
	}
	return prio, buf[:n], true
}

// Err returns the error that terminated the iteration, if any.
// It is nil after a clean drain, i.e. when the last receive reported
// that it would block.
func (it *Iter) Err() error {
	return it.err
}
