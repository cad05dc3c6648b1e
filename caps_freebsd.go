// Copyright 2016 Aleksandr Demakin. All rights reserved.

package posixmq

// kmq_open rejects unknown open flags, so close-on-exec cannot be
// requested at open time and is applied right afterwards.
// The kmq_* syscalls return plain file descriptors, so the raw
// descriptor capabilities are available (unlike libc, whose mqd_t
// is a pointer there).
var sysCaps = Capabilities{
	TryClone:               true,
	RawDescriptor:          true,
	ForcedCloexecAfterOpen: true,
	MaxPriority:            63,
	DefaultCapacity:        10,
	DefaultMaxMsgLen:       1024,
	MaxCapacity:            100,
	MaxMaxMsgLen:           16384,
	AllowsEmptyMessages:    true,
	EnforcesNameRules:      true,
	RejectsDotNames:        true,
}
