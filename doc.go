// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package posixmq provides access to posix message queues: named,
// capacity-bounded kernel channels shared between unrelated processes
// through a flat namespace separate from the file system. Messages
// carry a priority; the highest priority is delivered first, FIFO among
// equal priorities.
//
// Queues are opened or created via OpenOptions:
//
//	q, err := posixmq.ReadWrite().Create().Capacity(8).MaxMsgLen(512).Open("/events")
//
// Names are opaque byte sequences; a leading '/' is prepended when
// missing, so "events" and "/events" refer to the same queue. A queue
// name persists until it is removed with Remove or the system reboots.
//
// Support is limited to the kernels that implement the facility and
// that go can reach without libc: linux, freebsd and netbsd. Behavioral
// differences between them (default capacities, close-on-exec handling,
// maximum priority) are normalized through the capability table
// returned by SystemCapabilities. On linux, queues and their
// permissions can be inspected under /dev/mqueue; on freebsd the
// mqueuefs kernel module must be loaded first.
//
// Send and receive retry transparently when interrupted by a signal.
// All other failures are reported as *Error values carrying a Kind.
package posixmq
