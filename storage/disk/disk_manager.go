package disk

import "github.com/ryogrid/bufferpool/types"

// DiskManager is responsible for reading and writing whole pages to
// and from a backing file, and for handing out fresh page ids. It is
// the sole collaborator the buffer pool consumes for persistence;
// everything above it (access methods, catalog, recovery) is out of
// scope for this module.
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	ShutDown()
	Size() int64
}
