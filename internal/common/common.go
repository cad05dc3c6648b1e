// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package common contains helpers shared by the syscall-level code.
package common

import (
	"os"
	"syscall"
)

// SyscallErrHasCode reports whether err carries the given errno,
// either directly or inside an *os.SyscallError.
func SyscallErrHasCode(err error, code syscall.Errno) bool {
	if errno, ok := err.(syscall.Errno); ok {
		return errno == code
	}
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno == code
		}
	}
	return false
}

// SyscallErrno extracts the errno from err, if there is one.
func SyscallErrno(err error) (syscall.Errno, bool) {
	if errno, ok := err.(syscall.Errno); ok {
		return errno, true
	}
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno, true
		}
	}
	return 0, false
}

// UninterruptedSyscall calls f, retrying as long as it fails with EINTR.
// The retry is invisible to the caller: an interrupted call is not an error.
func UninterruptedSyscall(f func() error) error {
	for {
		err := f()
		if err == nil || !SyscallErrHasCode(err, syscall.EINTR) {
			return err
		}
	}
}

// UninterruptedSyscallInt is UninterruptedSyscall for calls returning a value.
func UninterruptedSyscallInt(f func() (int, error)) (int, error) {
	for {
		n, err := f()
		if err == nil || !SyscallErrHasCode(err, syscall.EINTR) {
			return n, err
		}
	}
}
