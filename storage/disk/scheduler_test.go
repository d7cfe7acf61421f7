package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryogrid/bufferpool/common"
)

func TestSchedulerReadWriteRoundTrip(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	sched := NewScheduler(dm)
	defer sched.Shutdown()

	writeBuf := make([]byte, common.PageSize)
	copy(writeBuf, "scheduled write")

	promise, future := sched.CreatePromise()
	sched.Schedule(&Request{IsWrite: true, Buf: writeBuf, PageID: 0, Completion: promise})
	assert.True(t, <-future)

	readBuf := make([]byte, common.PageSize)
	promise2, future2 := sched.CreatePromise()
	sched.Schedule(&Request{IsWrite: false, Buf: readBuf, PageID: 0, Completion: promise2})
	assert.True(t, <-future2)

	assert.Equal(t, writeBuf, readBuf)
}

func TestSchedulerPreservesFIFOOrder(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	sched := NewScheduler(dm)
	defer sched.Shutdown()

	const n = 20
	futures := make([]Future, n)
	bufs := make([][]byte, n)
	for i := 0; i < n; i++ {
		buf := make([]byte, common.PageSize)
		buf[0] = byte(i)
		bufs[i] = buf
		promise, future := sched.CreatePromise()
		futures[i] = future
		sched.Schedule(&Request{IsWrite: true, Buf: buf, PageID: 0, Completion: promise})
	}
	for i := 0; i < n; i++ {
		assert.True(t, <-futures[i])
	}

	readBuf := make([]byte, common.PageSize)
	promise, future := sched.CreatePromise()
	sched.Schedule(&Request{IsWrite: false, Buf: readBuf, PageID: 0, Completion: promise})
	<-future

	// the last write scheduled is the one that should have landed.
	assert.Equal(t, byte(n-1), readBuf[0])
}
