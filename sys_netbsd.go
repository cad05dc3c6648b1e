// Copyright 2016 Aleksandr Demakin. All rights reserved.

package posixmq

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/nxgtw/go-posixmq/internal/allocator"

	"golang.org/x/sys/unix"
)

// x/sys/unix does not generate the message queue syscall numbers for
// netbsd; the values below are from sys/kern/syscalls.master. The
// timed send/receive entries are the __mq_timed*50 variants taking the
// 64-bit time_t timespec.
const (
	sysMqOpen           = 257
	sysMqClose          = 258
	sysMqUnlink         = 259
	sysMqGetAttr        = 260
	sysMqSetAttr        = 261
	sysMqTimedSend50    = 418
	sysMqTimedReceive50 = 419
)

// mqAttr mirrors struct mq_attr.
type mqAttr struct {
	Flags   int /* 0 or O_NONBLOCK */
	Maxmsg  int /* max # of messages on queue */
	Msgsize int /* max message size */
	Curmsgs int /* # of messages currently in queue */
}

func mqOpen(name []byte, flags int, mode uint32, attr *mqAttr) (int, error) {
	nameP := allocator.ByteSliceData(name)
	attrP := unsafe.Pointer(attr)
	id, _, errno := syscall.Syscall6(sysMqOpen,
		uintptr(nameP),
		uintptr(flags),
		uintptr(mode),
		uintptr(attrP),
		0,
		0)
	allocator.Use(nameP)
	allocator.Use(attrP)
	if errno != 0 {
		return -1, os.NewSyscallError("MQ_OPEN", errno)
	}
	return int(id), nil
}

func mqSend(mqd int, data []byte, prio uint, abstime *unix.Timespec) error {
	dataP := allocator.ByteSliceData(data)
	timeP := unsafe.Pointer(abstime)
	_, _, errno := syscall.Syscall6(sysMqTimedSend50,
		uintptr(mqd),
		uintptr(dataP),
		uintptr(len(data)),
		uintptr(prio),
		uintptr(timeP),
		0)
	allocator.Use(dataP)
	allocator.Use(timeP)
	if errno != 0 {
		return os.NewSyscallError("MQ_TIMEDSEND", errno)
	}
	return nil
}

func mqReceive(mqd int, buf []byte, abstime *unix.Timespec) (int, uint, error) {
	var prio uint32
	bufP := allocator.ByteSliceData(buf)
	timeP := unsafe.Pointer(abstime)
	n, _, errno := syscall.Syscall6(sysMqTimedReceive50,
		uintptr(mqd),
		uintptr(bufP),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&prio)),
		uintptr(timeP),
		0)
	allocator.Use(bufP)
	allocator.Use(timeP)
	if errno != 0 {
		return 0, 0, os.NewSyscallError("MQ_TIMEDRECEIVE", errno)
	}
	return int(n), uint(prio), nil
}

func mqGetAttr(mqd int) (*mqAttr, error) {
	attr := new(mqAttr)
	attrP := unsafe.Pointer(attr)
	_, _, errno := syscall.Syscall(sysMqGetAttr, uintptr(mqd), uintptr(attrP), 0)
	allocator.Use(attrP)
	if errno != 0 {
		return nil, os.NewSyscallError("MQ_GETATTR", errno)
	}
	return attr, nil
}

func mqSetAttr(mqd int, attr *mqAttr) error {
	attrP := unsafe.Pointer(attr)
	_, _, errno := syscall.Syscall(sysMqSetAttr, uintptr(mqd), uintptr(attrP), 0)
	allocator.Use(attrP)
	if errno != 0 {
		return os.NewSyscallError("MQ_SETATTR", errno)
	}
	return nil
}

func mqUnlink(name []byte) error {
	nameP := allocator.ByteSliceData(name)
	_, _, errno := syscall.Syscall(sysMqUnlink, uintptr(nameP), 0, 0)
	allocator.Use(nameP)
	if errno != 0 {
		return os.NewSyscallError("MQ_UNLINK", errno)
	}
	return nil
}

func mqClose(mqd int) error {
	_, _, errno := syscall.Syscall(sysMqClose, uintptr(mqd), 0, 0)
	if errno != 0 {
		return os.NewSyscallError("MQ_CLOSE", errno)
	}
	return nil
}
