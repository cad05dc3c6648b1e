// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package posixmq

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMqName = "go-posixmq.test"

func openTestQueue(t *testing.T, o *OpenOptions) *Queue {
	Remove(testMqName)
	q, err := o.Open(testMqName)
	require.NoError(t, err)
	return q
}

func closeTestQueue(t *testing.T, q *Queue) {
	assert.NoError(t, q.Close())
	Remove(testMqName)
}

func TestSendReceiveRoundTrip(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(4).MaxMsgLen(64))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(5, []byte("hello")))
	buf := make([]byte, 64)
	prio, n, err := q.Receive(buf)
	require.NoError(t, err)
	assert.Equal(t, uint(5), prio)
	assert.Equal(t, []byte("hello"), buf[:n])
}

func TestPriorityOrdering(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(4).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("a")))
	require.NoError(t, q.Send(0, []byte("b")))
	require.NoError(t, q.Send(10, []byte("c")))
	buf := make([]byte, 16)
	// highest priority first, then fifo among equals
	for _, expected := range []struct {
		prio uint
		data string
	}{{10, "c"}, {0, "a"}, {0, "b"}} {
		prio, n, err := q.Receive(buf)
		require.NoError(t, err)
		assert.Equal(t, expected.prio, prio)
		assert.Equal(t, expected.data, string(buf[:n]))
	}
}

func TestFullQueueWouldBlock(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Nonblocking().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("first")))
	err := q.Send(0, []byte("second"))
	require.Error(t, err)
	assert.Equal(t, KindWouldBlock, KindOf(err))
	e, ok := err.(*Error)
	require.True(t, ok)
	assert.True(t, e.Temporary())
}

func TestEmptyQueueWouldBlock(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Nonblocking().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	_, _, err := q.Receive(make([]byte, 16))
	require.Error(t, err)
	assert.Equal(t, KindWouldBlock, KindOf(err))
}

func TestReceiveUndersizedBuffer(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(2).MaxMsgLen(64))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("hi")))
	// the buffer must fit the maximum message length, not the payload
	_, _, err := q.Receive(make([]byte, 8))
	require.Error(t, err)
	// the message is still in the queue after the failed receive
	prio, n, err := q.Receive(make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, uint(0), prio)
	assert.Equal(t, 2, n)
}

func TestReceiveZeroTimeout(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	start := time.Now()
	_, _, err := q.ReceiveTimeout(make([]byte, 16), 0)
	require.Error(t, err)
	assert.Equal(t, KindTimedOut, KindOf(err))
	assert.True(t, time.Since(start) < 3*time.Second)
}

func TestReceivePastDeadline(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	_, _, err := q.ReceiveDeadline(make([]byte, 16), time.Unix(1, 0))
	require.Error(t, err)
	assert.Equal(t, KindTimedOut, KindOf(err))
}

func TestNegativeTimeoutRejected(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	err := q.SendTimeout(0, []byte("x"), -time.Second)
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	_, _, err = q.ReceiveTimeout(make([]byte, 16), -time.Second)
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestNonblockingBeatsDeadline(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Nonblocking().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("fill")))
	// on a non-blocking handle the kernel reports WouldBlock without
	// waiting, even for a saturated far-future deadline
	err := q.SendDeadline(0, []byte("more"), time.Unix(math.MaxInt64, 0))
	require.Error(t, err)
	assert.Equal(t, KindWouldBlock, KindOf(err))
}

func TestNameNormalizationEquivalence(t *testing.T) {
	Remove(testMqName)
	q1, err := ReadWrite().CreateNew().Capacity(2).MaxMsgLen(16).Open("/" + testMqName)
	require.NoError(t, err)
	defer closeTestQueue(t, q1)
	q2, err := ReadWrite().Existing().Open(testMqName)
	require.NoError(t, err)
	defer q2.Close()
	require.NoError(t, q1.Send(1, []byte("via q1")))
	prio, n, err := q2.Receive(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, uint(1), prio)
	assert.Equal(t, 6, n)
}

func TestCreateNewCollision(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	_, err := ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16).Open(testMqName)
	require.Error(t, err)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
}

func TestOpenMissingQueue(t *testing.T) {
	Remove(testMqName)
	_, err := ReadWrite().Existing().Open(testMqName)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRemoveSemantics(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(2).MaxMsgLen(16))
	defer q.Close()
	require.NoError(t, q.Send(0, []byte("kept")))
	require.NoError(t, Remove(testMqName))
	// the open handle keeps working after the name is gone
	prio, n, err := q.Receive(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, uint(0), prio)
	assert.Equal(t, 4, n)
	// removing again reports the name as absent
	err = Remove(testMqName)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	// re-creating the name yields a fresh, empty queue
	fresh, err := ReadWrite().CreateNew().Capacity(2).MaxMsgLen(16).Open(testMqName)
	require.NoError(t, err)
	defer closeTestQueue(t, fresh)
	attrs, err := fresh.Attributes()
	require.NoError(t, err)
	assert.Equal(t, 0, attrs.CurrentMessages)
}

func TestAttributesSnapshot(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(4).MaxMsgLen(32))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("one")))
	attrs, err := q.Attributes()
	require.NoError(t, err)
	assert.Equal(t, 32, attrs.MaxMsgLen)
	assert.Equal(t, 4, attrs.Capacity)
	assert.Equal(t, 1, attrs.CurrentMessages)
	assert.False(t, attrs.Nonblocking)
}

func TestSetNonblocking(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	nonblocking, err := q.IsNonblocking()
	require.NoError(t, err)
	assert.False(t, nonblocking)

	require.NoError(t, q.SetNonblocking(true))
	nonblocking, err = q.IsNonblocking()
	require.NoError(t, err)
	assert.True(t, nonblocking)
	_, _, err = q.Receive(make([]byte, 16))
	assert.Equal(t, KindWouldBlock, KindOf(err))

	require.NoError(t, q.SetNonblocking(false))
	attrs, err := q.Attributes()
	require.NoError(t, err)
	assert.False(t, attrs.Nonblocking)
	// toggling the mode must not disturb the other attributes
	assert.Equal(t, 1, attrs.Capacity)
	assert.Equal(t, 16, attrs.MaxMsgLen)
}

func TestIterDrain(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Nonblocking().Capacity(4).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("low")))
	require.NoError(t, q.Send(5, []byte("high")))
	require.NoError(t, q.Send(0, []byte("low2")))

	it := q.Iter()
	var got []string
	for {
		_, msg, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, string(msg))
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, []string{"high", "low", "low2"}, got)
	// the iterator stays exhausted
	_, _, ok := it.Next()
	assert.False(t, ok)
	assert.NoError(t, it.Err())
}

func TestIterSurfacesErrors(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Nonblocking().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	wo, err := WriteOnly().Nonblocking().Existing().Open(testMqName)
	require.NoError(t, err)
	defer wo.Close()
	require.NoError(t, wo.Send(0, []byte("x")))
	// receiving from a write-only handle is an error, not a clean drain
	it := wo.Iter()
	_, _, ok := it.Next()
	assert.False(t, ok)
	assert.Error(t, it.Err())
}

func TestTryClone(t *testing.T) {
	if !SystemCapabilities().TryClone {
		t.Skip("duplication is not supported here")
	}
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(2).MaxMsgLen(16))
	defer func() { Remove(testMqName) }()
	clone, err := q.TryClone()
	require.NoError(t, err)
	defer clone.Close()

	require.NoError(t, q.Send(3, []byte("shared")))
	prio, n, err := clone.Receive(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, uint(3), prio)
	assert.Equal(t, 6, n)

	cloexec, err := clone.IsCloexec()
	require.NoError(t, err)
	assert.True(t, cloexec)

	// the clone survives closing the original
	require.NoError(t, q.Close())
	require.NoError(t, clone.Send(0, []byte("alive")))
}

func TestCloexec(t *testing.T) {
	if !SystemCapabilities().RawDescriptor {
		t.Skip("raw descriptors are not available here")
	}
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	cloexec, err := q.IsCloexec()
	require.NoError(t, err)
	assert.True(t, cloexec)

	require.NoError(t, q.SetCloexec(false))
	cloexec, err = q.IsCloexec()
	require.NoError(t, err)
	assert.False(t, cloexec)

	require.NoError(t, q.SetCloexec(true))
	cloexec, err = q.IsCloexec()
	require.NoError(t, err)
	assert.True(t, cloexec)
}

func TestFdOwnership(t *testing.T) {
	if !SystemCapabilities().RawDescriptor {
		t.Skip("raw descriptors are not available here")
	}
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(2).MaxMsgLen(16))
	defer func() { Remove(testMqName) }()

	fd, err := q.Fd()
	require.NoError(t, err)
	assert.True(t, fd >= 0)

	moved, err := q.IntoFd()
	require.NoError(t, err)
	assert.Equal(t, fd, moved)
	// the drained handle closes as a no-op
	assert.NoError(t, q.Close())

	q2 := FromFd(moved)
	require.NoError(t, q2.Send(0, []byte("adopted")))
	prio, n, err := q2.Receive(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, uint(0), prio)
	assert.Equal(t, 7, n)
	assert.NoError(t, q2.Close())
}

func TestCloseIdempotent(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	Remove(testMqName)
	assert.NoError(t, q.Close())
	assert.NoError(t, q.Close())
}

func TestSendTimeoutExpires(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	require.NoError(t, q.Send(0, []byte("fill")))
	start := time.Now()
	err := q.SendTimeout(0, []byte("more"), 100*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, KindTimedOut, KindOf(err))
	assert.True(t, time.Since(start) >= 100*time.Millisecond)
}

func TestBlockedReceiveWakesOnSend(t *testing.T) {
	q := openTestQueue(t, ReadWrite().CreateNew().Capacity(1).MaxMsgLen(16))
	defer closeTestQueue(t, q)
	go func() {
		time.Sleep(50 * time.Millisecond)
		q.Send(7, []byte("wake"))
	}()
	prio, n, err := q.ReceiveTimeout(make([]byte, 16), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint(7), prio)
	assert.Equal(t, 4, n)
}

func TestDefaultCapacities(t *testing.T) {
	Remove(testMqName)
	// no explicit capacities: the kernel applies its defaults
	q, err := ReadWrite().CreateNew().Open(testMqName)
	require.NoError(t, err)
	defer closeTestQueue(t, q)
	attrs, err := q.Attributes()
	require.NoError(t, err)
	caps := SystemCapabilities()
	assert.Equal(t, caps.DefaultCapacity, attrs.Capacity)
	assert.Equal(t, caps.DefaultMaxMsgLen, attrs.MaxMsgLen)
}
