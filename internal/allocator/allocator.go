// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package allocator contains pointer helpers for passing go memory
// to raw system calls.
package allocator

import (
	"runtime"
	"unsafe"
)

// ByteSliceData returns a pointer to the data of the given byte slice.
func ByteSliceData(slice []byte) unsafe.Pointer {
	if len(slice) == 0 {
		return nil
	}
	return unsafe.Pointer(&slice[0])
}

// Use ensures the object behind the pointer is reachable until this call.
// It must be placed after the last use of a pointer passed to a syscall.
func Use(p unsafe.Pointer) {
	runtime.KeepAlive(p)
}
