// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// minTimeSec is the smallest representable seconds value.
// One below the negated max, so saturating a pre-epoch point never
// collides with a real conversion result.
const minTimeSec = -maxTimeSec - 1

// absWalltime converts a wall-clock point to the kernel's absolute
// (seconds, nanoseconds) pair. The nanosecond part always counts toward
// positive infinity, so for pre-epoch points the seconds value is
// negative with a non-negative remainder; (-1, 0) < (-1, 999999999) < (0, 0).
// Go's Unix()/Nanosecond() already follow that convention.
// ok is false if the point was saturated to the representable range.
func absWalltime(t time.Time) (sec, nsec int64, ok bool) {
	sec, nsec = t.Unix(), int64(t.Nanosecond())
	if sec > maxTimeSec {
		return maxTimeSec, 0, false
	}
	if sec < minTimeSec {
		return minTimeSec, 0, false
	}
	return sec, nsec, true
}

// walltimeToTimespec converts a deadline, saturating instead of
// overflowing. A deadline past the representable range degenerates to
// waiting until the maximum representable time, which is well-defined.
func walltimeToTimespec(t time.Time) unix.Timespec {
	sec, nsec, _ := absWalltime(t)
	return makeTimespec(sec, nsec)
}

// timeoutToTimespec converts a relative timeout to an absolute
// timespec. A negative timeout yields nil, which makes the kernel call
// block indefinitely.
func timeoutToTimespec(op string, timeout time.Duration) (*unix.Timespec, error) {
	if timeout < 0 {
		return nil, nil
	}
	nowSec, nowNsec, ok := absWalltime(time.Now())
	if !ok {
		return nil, newKindError(op, "", KindOther, errors.New("system time is not representable"))
	}
	sec := nowSec + int64(timeout/time.Second)
	nsec := nowNsec + int64(timeout%time.Second)
	// nanosecond values use 30 bits, so the sum cannot itself overflow;
	// reduce modulo one second and carry into the seconds.
	sec += nsec / int64(time.Second)
	nsec %= int64(time.Second)
	// Catch both arithmetic wrap-around and, on targets with a narrow
	// seconds type, results past the representable maximum. Either way
	// the deadline would land in the past instead of the future.
	if sec < nowSec || sec > maxTimeSec {
		return nil, newKindError(op, "", KindInvalidInput, errors.New("timeout is too long"))
	}
	ts := makeTimespec(sec, nsec)
	return &ts, nil
}
