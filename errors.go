// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

import (
	stderrors "errors"
	"fmt"
	"syscall"

	"github.com/nxgtw/go-posixmq/internal/common"
)

// Kind classifies an error returned by this package.
type Kind int

const (
	// KindOther is any kernel-specific or unlikely condition.
	// The original error code is preserved for diagnostics.
	KindOther Kind = iota
	// KindNotFound - the queue or name is absent or invalid.
	KindNotFound
	// KindAlreadyExists - exclusive create collided with an existing queue.
	KindAlreadyExists
	// KindPermission - access denied, or the name violates the
	// single-separator namespace shape.
	KindPermission
	// KindInvalidInput - embedded nul byte, invalid priority,
	// unrepresentable timeout, or an invalid capacity/size combination.
	KindInvalidInput
	// KindWouldBlock - a non-blocking operation would have blocked.
	KindWouldBlock
	// KindTimedOut - a timed operation reached its deadline.
	KindTimedOut
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindPermission:
		return "permission denied"
	case KindInvalidInput:
		return "invalid input"
	case KindWouldBlock:
		return "would block"
	case KindTimedOut:
		return "timed out"
	default:
		return "other"
	}
}

// Error is the error type returned by all fallible operations of this package.
type Error struct {
	// Op is the failed operation, e.g. "open" or "send".
	Op string
	// Name is the queue name, if the operation had one.
	// It is reported verbatim, as opaque bytes.
	Name string
	// Kind is the classification of the failure.
	Kind Kind
	// Err is the underlying cause, usually an *os.SyscallError.
	Err error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("posixmq %s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("posixmq %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the error is a deadline expiry.
func (e *Error) Timeout() bool { return e.Kind == KindTimedOut }

// Temporary reports whether retrying the operation may succeed.
func (e *Error) Temporary() bool {
	return e.Kind == KindWouldBlock || e.Kind == KindTimedOut
}

// KindOf classifies err. It understands *Error values produced by this
// package as well as bare errno values and *os.SyscallError.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	if errno, ok := common.SyscallErrno(err); ok {
		return kindOfErrno(errno)
	}
	return KindOther
}

// kindOfErrno maps a kernel error code to its reported kind.
func kindOfErrno(errno syscall.Errno) Kind {
	switch errno {
	case syscall.ENOENT:
		return KindNotFound
	case syscall.EEXIST:
		return KindAlreadyExists
	case syscall.EACCES:
		return KindPermission
	case syscall.EINVAL:
		return KindInvalidInput
	case syscall.EAGAIN:
		return KindWouldBlock
	case syscall.ETIMEDOUT:
		return KindTimedOut
	default:
		// ENAMETOOLONG, EMSGSIZE, ENOSYS, EMFILE, ENFILE, ENOMEM,
		// ENOSPC and the rest keep their original code for diagnostics.
		return KindOther
	}
}

// newError builds an *Error around a syscall failure, classifying it by errno.
func newError(op, name string, err error) error {
	return &Error{Op: op, Name: name, Kind: KindOf(err), Err: err}
}

// newKindError builds an *Error with an explicit kind for failures
// detected before reaching the kernel.
func newKindError(op, name string, kind Kind, err error) error {
	return &Error{Op: op, Name: name, Kind: kind, Err: err}
}
