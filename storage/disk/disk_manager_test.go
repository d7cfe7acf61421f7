package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/types"
)

func TestReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)

	copy(data, "A test string.")

	assert.NoError(t, dm.ReadPage(0, buffer)) // tolerate empty read, zero-filled
	assert.NoError(t, dm.WritePage(0, data))
	assert.NoError(t, dm.ReadPage(0, buffer))
	assert.Equal(t, data, buffer)

	for i := range buffer {
		buffer[i] = 0
	}
	copy(data, "Another test string.")

	assert.NoError(t, dm.WritePage(5, data))
	assert.NoError(t, dm.ReadPage(5, buffer))
	assert.Equal(t, data, buffer)
	assert.EqualValues(t, 2, dm.GetNumWrites())
}

func TestAllocatePageMonotonic(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	first := dm.AllocatePage()
	second := dm.AllocatePage()
	assert.Equal(t, first+1, second)
	assert.Equal(t, types.PageID(0), first)
}
