// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

import (
	"time"

	"github.com/nxgtw/go-posixmq/internal/common"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const invalidMqd = -1

// Queue is an open message queue descriptor. It can be sent to and/or
// received from depending on the options it was opened with.
//
// A Queue must not be copied; TryClone produces an independent handle
// to the same underlying queue. Concurrent sends and receives on one
// handle are safe - the kernel serializes at the call boundary - but
// toggling the blocking mode concurrently with in-flight calls leaves
// those calls' mode unspecified by the kernel.
type Queue struct {
	mqd int
}

// Attributes is a point-in-time snapshot of a queue's state.
// CurrentMessages is immediately stale: concurrent producers and
// consumers can change it between the query and any use of the value.
type Attributes struct {
	// MaxMsgLen is the maximum size of a single message.
	MaxMsgLen int
	// Capacity is the maximum number of messages in the queue.
	Capacity int
	// CurrentMessages is the number of messages in the queue at the
	// time the attributes were retrieved.
	CurrentMessages int
	// Nonblocking is whether the descriptor was in non-blocking mode
	// at the time the attributes were retrieved.
	Nonblocking bool
}

// Send adds a message to the queue. It blocks while the queue is full
// unless the handle is in non-blocking mode, in which case it fails
// with a WouldBlock error. For maximum portability avoid priorities
// above 31 and zero-length payloads.
func (q *Queue) Send(prio uint, msg []byte) error {
	return q.send("send", prio, msg, nil)
}

// SendTimeout is Send which gives up with a TimedOut error if the queue
// is still full after the given duration. On a non-blocking handle the
// kernel returns immediately and the timeout has no effect; that is
// intentional, not a bug.
func (q *Queue) SendTimeout(prio uint, msg []byte, timeout time.Duration) error {
	if timeout < 0 {
		return newKindError("send", "", KindInvalidInput, errors.New("negative timeout"))
	}
	abstime, err := timeoutToTimespec("send", timeout)
	if err != nil {
		return err
	}
	return q.send("send", prio, msg, abstime)
}

// SendDeadline is Send which gives up with a TimedOut error if the
// queue is still full at the given wall-clock point. The deadline is
// wall-clock time because queues are shared between processes, and a
// monotonic reading would be process-specific. A deadline beyond the
// representable range saturates to the maximum representable time.
// On a non-blocking handle the deadline has no effect.
func (q *Queue) SendDeadline(prio uint, msg []byte, deadline time.Time) error {
	abstime := walltimeToTimespec(deadline)
	return q.send("send", prio, msg, &abstime)
}

func (q *Queue) send(op string, prio uint, msg []byte, abstime *unix.Timespec) error {
	err := common.UninterruptedSyscall(func() error {
		return mqSend(q.mqd, msg, prio, abstime)
	})
	if err != nil {
		return newError(op, "", err)
	}
	return nil
}

// Receive takes the message with the highest priority from the queue,
// FIFO among equal priorities. It blocks while the queue is empty
// unless the handle is in non-blocking mode, in which case it fails
// with a WouldBlock error.
//
// The buffer must be at least as big as the queue's maximum message
// length, or the call fails without delivering a partial payload.
func (q *Queue) Receive(buf []byte) (prio uint, n int, err error) {
	return q.receive("receive", buf, nil)
}

// ReceiveTimeout is Receive which gives up with a TimedOut error if the
// queue is still empty after the given duration. On a non-blocking
// handle the kernel returns immediately and the timeout has no effect.
func (q *Queue) ReceiveTimeout(buf []byte, timeout time.Duration) (prio uint, n int, err error) {
	if timeout < 0 {
		return 0, 0, newKindError("receive", "", KindInvalidInput, errors.New("negative timeout"))
	}
	abstime, err := timeoutToTimespec("receive", timeout)
	if err != nil {
		return 0, 0, err
	}
	return q.receive("receive", buf, abstime)
}

// ReceiveDeadline is Receive which gives up with a TimedOut error if
// the queue is still empty at the given wall-clock point. A deadline
// beyond the representable range saturates to the maximum representable
// time. On a non-blocking handle the deadline has no effect.
func (q *Queue) ReceiveDeadline(buf []byte, deadline time.Time) (prio uint, n int, err error) {
	abstime := walltimeToTimespec(deadline)
	return q.receive("receive", buf, &abstime)
}

func (q *Queue) receive(op string, buf []byte, abstime *unix.Timespec) (uint, int, error) {
	var prio uint
	n, err := common.UninterruptedSyscallInt(func() (int, error) {
		n, p, err := mqReceive(q.mqd, buf, abstime)
		prio = p
		return n, err
	})
	if err != nil {
		return 0, 0, newError(op, "", err)
	}
	return prio, n, nil
}

// Attributes returns a snapshot of the queue's state. It should only
// fail if the handle is invalid, which can only happen through misuse
// of FromFd or after the underlying descriptor was closed elsewhere.
func (q *Queue) Attributes() (Attributes, error) {
	attr, err := mqGetAttr(q.mqd)
	if err != nil {
		return Attributes{}, newError("getattr", "", err)
	}
	return Attributes{
		MaxMsgLen:       attr.Msgsize,
		Capacity:        attr.Maxmsg,
		CurrentMessages: attr.Curmsgs,
		Nonblocking:     attr.Flags&unix.O_NONBLOCK != 0,
	}, nil
}

// IsNonblocking reports whether the handle is in non-blocking mode.
// To ignore the (unlikely) failure, use q.IsNonblocking() with the
// error discarded; a failed query does not guarantee later calls
// won't block.
func (q *Queue) IsNonblocking() (bool, error) {
	attrs, err := q.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Nonblocking, nil
}

// SetNonblocking switches the handle between blocking and non-blocking
// mode. Only the blocking-mode bit changes; the kernel keeps the rest
// of the attribute state. Toggling the mode while sends or receives are
// in flight on the same handle leaves their behavior unspecified.
func (q *Queue) SetNonblocking(nonblocking bool) error {
	attr := new(mqAttr)
	if nonblocking {
		attr.Flags = unix.O_NONBLOCK
	}
	if err := mqSetAttr(q.mqd, attr); err != nil {
		return newError("setattr", "", err)
	}
	return nil
}

// TryClone creates an independent handle referring to the same queue.
// The new handle has close-on-exec set.
func (q *Queue) TryClone() (*Queue, error) {
	if !sysCaps.TryClone {
		return nil, newKindError("clone", "", KindOther,
			errors.New("descriptor duplication is not supported on this platform"))
	}
	fd, err := unix.FcntlInt(uintptr(q.mqd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, newError("clone", "", err)
	}
	if sysCaps.DupIgnoresCloexec {
		// the duplication primitive did not carry the flag, re-apply it
		if err := setCloexec(fd, true); err != nil {
			mqClose(fd)
			return nil, newError("clone", "", errors.Wrap(err, "failed to set close-on-exec"))
		}
	}
	return &Queue{mqd: fd}, nil
}

// IsCloexec reports whether the descriptor is closed when the process
// execs into another program. Queues have close-on-exec set by default.
// On targets without raw descriptor access the result is a conservative
// true, since descriptor inheritance cannot be controlled there anyway.
func (q *Queue) IsCloexec() (bool, error) {
	if !sysCaps.RawDescriptor {
		return true, nil
	}
	flags, err := unix.FcntlInt(uintptr(q.mqd), unix.F_GETFD, 0)
	if err != nil {
		return false, newError("getfd", "", err)
	}
	return flags&unix.FD_CLOEXEC != 0, nil
}

// SetCloexec changes close-on-exec for the descriptor. It is on by
// default, so this is only needed to keep the queue open across exec.
func (q *Queue) SetCloexec(cloexec bool) error {
	if !sysCaps.RawDescriptor {
		return newKindError("setfd", "", KindOther,
			errors.New("close-on-exec is not controllable on this platform"))
	}
	if err := setCloexec(q.mqd, cloexec); err != nil {
		return newError("setfd", "", err)
	}
	return nil
}

func setCloexec(fd int, cloexec bool) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err != nil {
		return err
	}
	if cloexec {
		flags |= unix.FD_CLOEXEC
	} else {
		flags &^= unix.FD_CLOEXEC
	}
	_, err = unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags)
	return err
}

// Fd returns the pollable file descriptor behind the handle, for
// registration with a poller. The descriptor remains owned by the
// Queue: do not close it, and do not use it after Close.
func (q *Queue) Fd() (int, error) {
	if !sysCaps.RawDescriptor {
		return invalidMqd, newKindError("fd", "", KindOther,
			errors.New("raw descriptor is not available on this platform"))
	}
	return q.mqd, nil
}

// FromFd wraps an already-open message queue descriptor.
//
// This is an unchecked contract: the caller must guarantee the
// descriptor is a valid, exclusively-owned message queue descriptor.
// The Queue takes ownership and closes it on Close.
func FromFd(fd int) *Queue {
	return &Queue{mqd: fd}
}

// IntoFd transfers ownership of the descriptor out of the handle
// without closing it. The Queue is left closed; the caller is
// responsible for closing the returned descriptor.
func (q *Queue) IntoFd() (int, error) {
	if !sysCaps.RawDescriptor {
		return invalidMqd, newKindError("fd", "", KindOther,
			errors.New("raw descriptor is not available on this platform"))
	}
	fd := q.mqd
	q.mqd = invalidMqd
	return fd, nil
}

// Close closes the handle. The descriptor is closed exactly once:
// closing an already-closed handle is a no-op.
func (q *Queue) Close() error {
	if q.mqd == invalidMqd {
		return nil
	}
	err := mqClose(q.mqd)
	q.mqd = invalidMqd
	if err != nil {
		return newError("close", "", err)
	}
	return nil
}
