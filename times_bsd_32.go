// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build (netbsd && 386) || (netbsd && arm) || (freebsd && arm)
// +build netbsd,386 netbsd,arm freebsd,arm

package posixmq

import (
	"math"

	"golang.org/x/sys/unix"
)

// These 32-bit targets keep a 64-bit time_t; only the nanosecond field
// is a 32-bit long.

// maxTimeSec is the largest seconds value a timespec can hold on this target.
const maxTimeSec = math.MaxInt64

func makeTimespec(sec, nsec int64) unix.Timespec {
	return unix.Timespec{Sec: sec, Nsec: int32(nsec)}
}
