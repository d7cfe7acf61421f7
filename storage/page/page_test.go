package page

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/types"
)

func TestEmptyFrame(t *testing.T) {
	p := NewEmptyFrame()

	assert.Equal(t, types.InvalidPageID, p.PageID())
	assert.EqualValues(t, 0, p.PinCount())
	assert.False(t, p.IsDirty())
	assert.Equal(t, [common.PageSize]byte{}, *p.Data())
}

func TestPinCounting(t *testing.T) {
	p := NewEmptyFrame()
	p.SetPageID(0)
	p.IncPinCount()
	assert.EqualValues(t, 1, p.PinCount())
	p.IncPinCount()
	assert.EqualValues(t, 2, p.PinCount())
	p.DecPinCount()
	p.DecPinCount()
	assert.EqualValues(t, 0, p.PinCount())
	// decrementing below zero is a no-op, not negative
	p.DecPinCount()
	assert.EqualValues(t, 0, p.PinCount())
}

func TestDirtyNeverClearedBySetDirty(t *testing.T) {
	p := NewEmptyFrame()
	assert.False(t, p.IsDirty())
	p.SetDirty(true)
	assert.True(t, p.IsDirty())
	// SetDirty(false) ORs in false, which never clears an existing dirty flag
	p.SetDirty(false)
	assert.True(t, p.IsDirty())
	p.ClearDirty()
	assert.False(t, p.IsDirty())
}

func TestCopyAndResetMemory(t *testing.T) {
	p := NewEmptyFrame()
	p.SetPageID(7)
	p.IncPinCount()
	p.SetDirty(true)
	p.Copy(0, []byte{'H', 'E', 'L', 'L', 'O'})

	assert.Equal(t, [common.PageSize]byte{'H', 'E', 'L', 'L', 'O'}, *p.Data())

	p.ResetMemory()
	assert.Equal(t, types.InvalidPageID, p.PageID())
	assert.EqualValues(t, 0, p.PinCount())
	assert.False(t, p.IsDirty())
	assert.Equal(t, [common.PageSize]byte{}, *p.Data())
}

func TestLatchRoundTrip(t *testing.T) {
	p := NewEmptyFrame()
	p.WLatch()
	p.WUnlatch()
	p.RLatch()
	// a second reader on another goroutine is admitted while the first
	// still holds the shared latch.
	done := make(chan struct{})
	go func() {
		p.RLatch()
		p.RUnlatch()
		close(done)
	}()
	<-done
	p.RUnlatch()
}
