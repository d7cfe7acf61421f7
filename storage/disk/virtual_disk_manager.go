package disk

import (
	"io"
	"sync"

	"github.com/dsnet/golib/memfile"

	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/types"
)

// VirtualDiskManagerImpl is an in-memory DiskManager: pages live in a
// memfile.File instead of a real file, so tests exercise the same
// read/write/allocate contract as DiskManagerImpl without ever
// touching the filesystem.
type VirtualDiskManagerImpl struct {
	mu         sync.Mutex
	db         *memfile.File
	nextPageID types.PageID
	numWrites  uint64
	size       int64
}

// NewVirtualDiskManagerImpl returns a DiskManager backed entirely by
// memory.
func NewVirtualDiskManagerImpl() DiskManager {
	return &VirtualDiskManagerImpl{db: memfile.New(make([]byte, 0))}
}

// ShutDown is a no-op: there is no file handle to close.
func (d *VirtualDiskManagerImpl) ShutDown() {}

// WritePage writes pageData (exactly common.PageSize bytes) at
// pageID's offset into the in-memory buffer.
func (d *VirtualDiskManagerImpl) WritePage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * common.PageSize
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return err
	}
	if offset+int64(len(pageData)) > d.size {
		d.size = offset + int64(len(pageData))
	}
	d.numWrites++
	return nil
}

// ReadPage fills pageData from pageID's offset. Reading a page past
// the end of the written region zero-fills pageData rather than
// erroring, matching DiskManagerImpl's tolerance for a brand new,
// never-written page id.
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * common.PageSize
	if offset >= d.size {
		for i := range pageData {
			pageData[i] = 0
		}
		return nil
	}

	n, err := d.db.ReadAt(pageData, offset)
	if err != nil && err != io.EOF {
		return err
	}
	for i := n; i < len(pageData); i++ {
		pageData[i] = 0
	}
	return nil
}

// AllocatePage hands out the next page id; ids are never reused.
func (d *VirtualDiskManagerImpl) AllocatePage() types.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage is a no-op, matching DiskManagerImpl.
func (d *VirtualDiskManagerImpl) DeallocatePage(types.PageID) {}

// GetNumWrites returns the number of completed WritePage calls.
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.numWrites
}

// Size returns the current logical size of the in-memory buffer in bytes.
func (d *VirtualDiskManagerImpl) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}
