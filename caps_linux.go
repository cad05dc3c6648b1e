// Copyright 2016 Aleksandr Demakin. All rights reserved.

package posixmq

// The kernel sets close-on-exec on mq descriptors unconditionally,
// so no compensation is needed after open or duplication.
// Size limits are the /proc/sys/fs/mqueue values for unprivileged
// processes; root is limited by a combined memory bound instead.
var sysCaps = Capabilities{
	TryClone:            true,
	RawDescriptor:       true,
	MaxPriority:         32767,
	DefaultCapacity:     10,
	DefaultMaxMsgLen:    8192,
	MaxCapacity:         10,
	MaxMaxMsgLen:        8192,
	AllowsEmptyMessages: true,
	EnforcesNameRules:   true,
	RejectsDotNames:     true,
}
