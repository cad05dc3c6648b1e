// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build (linux && 386) || (linux && arm) || (linux && mips) || (linux && mipsle) || (freebsd && 386)
// +build linux,386 linux,arm linux,mips linux,mipsle freebsd,386

package posixmq

import (
	"math"

	"golang.org/x/sys/unix"
)

// maxTimeSec is the largest seconds value a timespec can hold on this target.
const maxTimeSec = math.MaxInt32

func makeTimespec(sec, nsec int64) unix.Timespec {
	return unix.Timespec{Sec: int32(sec), Nsec: int32(nsec)}
}
