// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

// Capabilities describes what the target kernel's message queue
// implementation supports and which defaults it applies. The table is
// resolved once per build target; operations consult it instead of
// branching on the OS directly.
type Capabilities struct {
	// TryClone reports whether a descriptor can be duplicated.
	TryClone bool
	// RawDescriptor reports whether the queue descriptor can be
	// extracted as a plain pollable file descriptor.
	RawDescriptor bool
	// ForcedCloexecAfterOpen is set on kernels that ignore the
	// close-on-exec flag at open time; the flag is then applied with a
	// separate call right after open.
	ForcedCloexecAfterOpen bool
	// DupIgnoresCloexec is set on kernels whose duplication primitive
	// does not carry close-on-exec; it is re-applied after duplication.
	DupIgnoresCloexec bool

	// MaxPriority is the highest accepted message priority.
	// Priorities up to 31 are portable across all supported kernels.
	MaxPriority uint
	// DefaultCapacity and DefaultMaxMsgLen apply when a queue is
	// created without explicit capacities.
	DefaultCapacity  int
	DefaultMaxMsgLen int
	// MaxCapacity and MaxMaxMsgLen are the kernel's creation limits.
	// On linux they are the limits for unprivileged processes.
	MaxCapacity  int
	MaxMaxMsgLen int

	// AllowsEmptyMessages reports whether zero-length messages can be sent.
	AllowsEmptyMessages bool
	// EnforcesNameRules reports whether the kernel rejects names with
	// more than one '/' or without a leading one.
	EnforcesNameRules bool
	// RejectsDotNames reports whether "/", "/." and "/.." are rejected.
	RejectsDotNames bool
}

// SystemCapabilities returns the capability table for the build target.
func SystemCapabilities() Capabilities {
	return sysCaps
}
