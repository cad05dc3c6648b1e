// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// OpenOptions accumulates flags and parameters which control how a
// message queue is opened or created. A zero capacity together with a
// zero max message length means the kernel picks its defaults; if one
// of them is set, the other should be too, or creation may fail.
type OpenOptions struct {
	flags     int
	mode      uint32
	capacity  int
	maxMsgLen int
}

func newOpenOptions(accessMode int) *OpenOptions {
	// permissions default to only accessible for the owner
	return &OpenOptions{flags: accessMode, mode: 0600}
}

// ReadOnly prepares opening a queue for receiving only.
func ReadOnly() *OpenOptions {
	return newOpenOptions(unix.O_RDONLY)
}

// WriteOnly prepares opening a queue for sending only.
func WriteOnly() *OpenOptions {
	return newOpenOptions(unix.O_WRONLY)
}

// ReadWrite prepares opening a queue both for sending and receiving.
func ReadWrite() *OpenOptions {
	return newOpenOptions(unix.O_RDWR)
}

// Mode sets the permissions to create the queue with. Some bits might
// be cleared by the process's umask. The field is ignored if the queue
// already exists or should not be created. Execute bits cannot be used.
func (o *OpenOptions) Mode(mode os.FileMode) *OpenOptions {
	o.mode = uint32(mode.Perm())
	return o
}

// MaxMsgLen sets the maximum size of a single message.
// Receive fails when given a buffer smaller than this value.
func (o *OpenOptions) MaxMsgLen(maxMsgLen int) *OpenOptions {
	o.maxMsgLen = maxMsgLen
	return o
}

// Capacity sets the maximum number of messages the queue can hold.
// When the queue is full, sends block or fail with a WouldBlock error.
func (o *OpenOptions) Capacity(capacity int) *OpenOptions {
	o.capacity = capacity
	return o
}

// Create makes Open create the queue if it doesn't exist.
func (o *OpenOptions) Create() *OpenOptions {
	o.flags |= unix.O_CREAT
	o.flags &^= unix.O_EXCL
	return o
}

// CreateNew makes Open create the queue, failing if it already exists.
func (o *OpenOptions) CreateNew() *OpenOptions {
	o.flags |= unix.O_CREAT | unix.O_EXCL
	return o
}

// Existing makes Open require the queue to already exist.
func (o *OpenOptions) Existing() *OpenOptions {
	o.flags &^= unix.O_CREAT | unix.O_EXCL
	return o
}

// Nonblocking opens the queue in non-blocking mode: sends and receives
// return a WouldBlock error instead of waiting.
func (o *OpenOptions) Nonblocking() *OpenOptions {
	o.flags |= unix.O_NONBLOCK
	return o
}

// Open opens a queue with the accumulated options. The name is encoded
// first: a '/' is prepended if missing and a nul terminator appended.
//
// Error kinds: queue absent, or the name is empty or a bare "/" -
// NotFound; queue exists with CreateNew - AlreadyExists; access denied,
// or more than one '/' in the name - PermissionDenied; invalid
// capacity/size combination, or a nul byte in the name - InvalidInput;
// name too long, capacities over the limits, or the facility being
// disabled - Other, carrying the original code.
func (o *OpenOptions) Open(name string) (*Queue, error) {
	encoded, err := encodeName("open", name)
	if err != nil {
		return nil, err
	}
	return o.open(name, encoded)
}

// OpenRaw opens a queue without normalizing the name: no separator is
// prepended, only the nul terminator is appended. This is the only way
// to reach queues whose names lack a leading '/' on kernels that allow
// them (see Capabilities.EnforcesNameRules).
func (o *OpenOptions) OpenRaw(name string) (*Queue, error) {
	encoded, err := encodeRawName("open", name)
	if err != nil {
		return nil, err
	}
	return o.open(name, encoded)
}

func (o *OpenOptions) open(name string, encoded []byte) (*Queue, error) {
	if !checkMqPerm(o.mode) {
		return nil, newKindError("open", name, KindInvalidInput,
			errors.New("execute permission bits cannot be used"))
	}
	// a nil attr pointer means "use the kernel defaults"
	var attr *mqAttr
	if o.capacity != 0 || o.maxMsgLen != 0 {
		attr = &mqAttr{Maxmsg: o.capacity, Msgsize: o.maxMsgLen}
	}
	mqd, err := mqOpen(encoded, o.flags, o.mode, attr)
	if err != nil {
		return nil, newError("open", name, err)
	}
	q := &Queue{mqd: mqd}
	if sysCaps.ForcedCloexecAfterOpen {
		// The kernel ignored any close-on-exec request at open time.
		// A failure here is propagated, not suppressed: the caller may
		// want to inspect it even though it comes from compensation.
		if err := setCloexec(q.mqd, true); err != nil {
			q.Close()
			return nil, newError("open", name, errors.Wrap(err, "failed to set close-on-exec"))
		}
	}
	return q, nil
}

// checkMqPerm rejects execute permission bits, which are meaningless
// for message queues.
func checkMqPerm(mode uint32) bool {
	return mode&0111 == 0
}

// Open opens an existing message queue in read-write mode.
func Open(name string) (*Queue, error) {
	return ReadWrite().Open(name)
}

// Create opens a message queue in read-write mode, creating it with the
// kernel's default capacities if it doesn't exist.
func Create(name string) (*Queue, error) {
	return ReadWrite().Create().Open(name)
}

// Remove deletes a message queue name from the namespace. Handles that
// are already open keep working; the name can then be re-created as a
// logically distinct queue. The name is encoded the same way Open
// encodes it.
func Remove(name string) error {
	encoded, err := encodeName("unlink", name)
	if err != nil {
		return err
	}
	if err := mqUnlink(encoded); err != nil {
		return newError("unlink", name, err)
	}
	return nil
}

// RemoveRaw deletes a queue without normalizing the name.
// It is needed to remove queues whose names lack a leading '/'.
func RemoveRaw(name string) error {
	encoded, err := encodeRawName("unlink", name)
	if err != nil {
		return err
	}
	if err := mqUnlink(encoded); err != nil {
		return newError("unlink", name, err)
	}
	return nil
}
