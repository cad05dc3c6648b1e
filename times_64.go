// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build amd64 || arm64 || ppc64 || ppc64le || riscv64 || s390x || mips64 || mips64le || loong64
// +build amd64 arm64 ppc64 ppc64le riscv64 s390x mips64 mips64le loong64

package posixmq

import (
	"math"

	"golang.org/x/sys/unix"
)

// maxTimeSec is the largest seconds value a timespec can hold on this target.
const maxTimeSec = math.MaxInt64

func makeTimespec(sec, nsec int64) unix.Timespec {
	return unix.Timespec{Sec: sec, Nsec: nsec}
}
