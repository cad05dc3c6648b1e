// Copyright 2016 Aleksandr Demakin. All rights reserved.

package posixmq

// NetBSD ignores close-on-exec both when opening and when duplicating
// descriptors, so the flag is applied with a separate call in both
// places. Name rules are not enforced: queues may exist without a
// leading '/', which is what the raw open entry point is for.
var sysCaps = Capabilities{
	TryClone:               true,
	RawDescriptor:          true,
	ForcedCloexecAfterOpen: true,
	DupIgnoresCloexec:      true,
	MaxPriority:            31,
	DefaultCapacity:        32,
	DefaultMaxMsgLen:       992,
	MaxCapacity:            512,
	MaxMaxMsgLen:           16384,
	AllowsEmptyMessages:    false,
	EnforcesNameRules:      false,
	RejectsDotNames:        false,
}
