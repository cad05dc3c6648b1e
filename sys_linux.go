// Copyright 2016 Aleksandr Demakin. All rights reserved.

package posixmq

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/nxgtw/go-posixmq/internal/allocator"

	"golang.org/x/sys/unix"
)

// mqAttr mirrors the kernel's struct mq_attr, including the reserved
// words the kernel copies out on mq_getsetattr.
type mqAttr struct {
	Flags   int /* 0 or O_NONBLOCK */
	Maxmsg  int /* max # of messages on queue */
	Msgsize int /* max message size */
	Curmsgs int /* # of messages currently in queue */
	_       [4]int
}

func mqOpen(name []byte, flags int, mode uint32, attr *mqAttr) (int, error) {
	nameP := allocator.ByteSliceData(name)
	attrP := unsafe.Pointer(attr)
	id, _, errno := syscall.Syscall6(unix.SYS_MQ_OPEN,
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
	_, _, errno := syscall.Syscall6(unix.SYS_MQ_TIMEDSEND,
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
	n, _, errno := syscall.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
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
	if err := mqGetSetAttr(mqd, nil, attr); err != nil {
		return nil, err
	}
	return attr, nil
}

func mqSetAttr(mqd int, attr *mqAttr) error {
	return mqGetSetAttr(mqd, attr, nil)
}

func mqGetSetAttr(mqd int, newAttr, oldAttr *mqAttr) error {
	newP := unsafe.Pointer(newAttr)
	oldP := unsafe.Pointer(oldAttr)
	_, _, errno := syscall.Syscall(unix.SYS_MQ_GETSETATTR,
		uintptr(mqd),
		uintptr(newP),
		uintptr(oldP))
	allocator.Use(newP)
	allocator.Use(oldP)
	if errno != 0 {
		return os.NewSyscallError("MQ_GETSETATTR", errno)
	}
	return nil
}

func mqUnlink(name []byte) error {
	nameP := allocator.ByteSliceData(name)
	_, _, errno := syscall.Syscall(unix.SYS_MQ_UNLINK, uintptr(nameP), 0, 0)
	allocator.Use(nameP)
	if errno != 0 {
		return os.NewSyscallError("MQ_UNLINK", errno)
	}
	return nil
}

// mqClose closes the descriptor. There is no mq_close syscall on linux;
// the descriptor is a plain fd.
func mqClose(mqd int) error {
	return unix.Close(mqd)
}
