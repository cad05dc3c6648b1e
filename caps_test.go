// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesCoherence(t *testing.T) {
	caps := SystemCapabilities()
	// priorities up to 31 are the portable guarantee
	assert.True(t, caps.MaxPriority >= 31)
	assert.True(t, caps.DefaultCapacity > 0)
	assert.True(t, caps.DefaultMaxMsgLen > 0)
	assert.True(t, caps.DefaultCapacity <= caps.MaxCapacity)
	assert.True(t, caps.DefaultMaxMsgLen <= caps.MaxMaxMsgLen)
}

func TestCapabilitiesCloexecConsistency(t *testing.T) {
	caps := SystemCapabilities()
	if caps.ForcedCloexecAfterOpen || caps.DupIgnoresCloexec {
		// compensation needs a real descriptor to work on
		assert.True(t, caps.RawDescriptor)
	}
}
