package disk

import (
	"errors"
	"io"
	"log"
	"os"
	"sync"

	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/types"
)

// DiskManagerImpl is the file-backed implementation of DiskManager. It
// performs one synchronous read or write per call; nothing here is
// async — that's the Scheduler's job.
type DiskManagerImpl struct {
	db         *os.File
	fileName   string
	nextPageID types.PageID
	numWrites  uint64
	size       int64
	mu         sync.Mutex
}

// NewDiskManagerImpl opens (creating if necessary) dbFilename and
// returns a DiskManager backed by it.
func NewDiskManagerImpl(dbFilename string) DiskManager {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		log.Fatalln("can't open db file")
		return nil
	}

	fileInfo, err := file.Stat()
	if err != nil {
		log.Fatalln("file info error")
		return nil
	}

	fileSize := fileInfo.Size()
	nPages := fileSize / common.PageSize

	nextPageID := types.PageID(0)
	if nPages > 0 {
		nextPageID = types.PageID(nPages)
	}

	return &DiskManagerImpl{db: file, fileName: dbFilename, nextPageID: nextPageID, size: fileSize}
}

// ShutDown closes the database file.
func (d *DiskManagerImpl) ShutDown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.db.Close()
}

// WritePage durably persists pageData (exactly common.PageSize bytes)
// at pageID's offset.
func (d *DiskManagerImpl) WritePage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * common.PageSize
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	bytesWritten, err := d.db.Write(pageData)
	if err != nil {
		return err
	}
	if bytesWritten != common.PageSize {
		return errors.New("bytes written not equal to page size")
	}

	if offset+int64(bytesWritten) > d.size {
		d.size = offset + int64(bytesWritten)
	}

	d.numWrites++
	return d.db.Sync()
}

// ReadPage fills pageData with exactly common.PageSize bytes read from
// pageID's offset. Reading a page past the end of the file (a brand
// new page id that was never written) zero-fills pageData rather than
// erroring — the caller (buffer pool manager) relies on this for the
// first fetch of a freshly allocated page.
func (d *DiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * common.PageSize

	fileInfo, err := d.db.Stat()
	if err != nil {
		return errors.New("file info error")
	}
	if offset >= fileInfo.Size() {
		for i := range pageData {
			pageData[i] = 0
		}
		return nil
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	bytesRead, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return errors.New("I/O error while reading")
	}
	if bytesRead < common.PageSize {
		for i := bytesRead; i < common.PageSize; i++ {
			pageData[i] = 0
		}
	}
	return nil
}

// AllocatePage hands out the next page id; ids are never reused, so
// this is just an increasing counter.
func (d *DiskManagerImpl) AllocatePage() types.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage is a no-op: this layer never reuses or reclaims page
// ids. A production implementation might punch a hole in the backing
// file or track free space for compaction.
func (d *DiskManagerImpl) DeallocatePage(types.PageID) {}

// GetNumWrites returns the number of completed WritePage calls.
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.numWrites
}

// Size returns the current size of the backing file in bytes.
func (d *DiskManagerImpl) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// RemoveDBFile deletes the backing file. Only safe to call after
// ShutDown.
func (d *DiskManagerImpl) RemoveDBFile() {
	os.Remove(d.fileName)
}
