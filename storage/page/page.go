package page

import (
	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/types"
)

// Page is one in-memory frame: a fixed-size data buffer plus the
// book-keeping the buffer pool manager and page guards need — current
// identity, pin count, dirty flag, and the reader/writer latch guards
// acquire after the pool mutex has been released.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[common.PageSize]byte
	latch    common.ReaderWriterLatch
}

// NewEmptyFrame returns a frame in its free-list state: no identity,
// unpinned, clean, zeroed. This is what the frame array is populated
// with at pool construction.
func NewEmptyFrame() *Page {
	return &Page{
		id:    types.InvalidPageID,
		data:  &[common.PageSize]byte{},
		latch: common.NewRWLatch(),
	}
}

// PageID returns the frame's current logical identity, or
// types.InvalidPageID if the frame is empty.
func (p *Page) PageID() types.PageID { return p.id }

// SetPageID installs a new logical identity, e.g. when a frame is
// (re)loaded from the free list or from eviction.
func (p *Page) SetPageID(id types.PageID) { p.id = id }

// PinCount returns the number of outstanding references. A frame with
// PinCount() > 0 is never evictable.
func (p *Page) PinCount() int32 { return p.pinCount }

// IncPinCount takes a pin.
func (p *Page) IncPinCount() { p.pinCount++ }

// DecPinCount releases a pin. No-op (rather than going negative) if
// already at zero — callers are expected to check PinCount() first,
// but this keeps a stray extra unpin from corrupting state.
func (p *Page) DecPinCount() {
	if p.pinCount > 0 {
		p.pinCount--
	}
}

// IsDirty reports whether the frame's contents differ from disk.
func (p *Page) IsDirty() bool { return p.isDirty }

// SetDirty ORs dirty into the frame's dirty flag. This never clears
// the flag — only a successful flush does that.
func (p *Page) SetDirty(dirty bool) {
	if dirty {
		p.isDirty = true
	}
}

// ClearDirty marks the frame clean. Only the buffer pool's flush paths
// (FlushPage, FlushAllPages, and the dirty-victim flush before a frame
// is reused) call this, after the write has completed.
func (p *Page) ClearDirty() { p.isDirty = false }

// Data returns the frame's backing buffer.
func (p *Page) Data() *[common.PageSize]byte { return p.data }

// ResetMemory zeroes the frame's buffer and clears its identity,
// dirty flag, and pin count, returning it to the state a reused frame
// must have before it's handed to a new page id.
func (p *Page) ResetMemory() {
	*p.data = [common.PageSize]byte{}
	p.id = types.InvalidPageID
	p.isDirty = false
	p.pinCount = 0
}

// Copy writes data into the frame's buffer at offset. Used by callers
// that hold a WriteGuard.
func (p *Page) Copy(offset int, data []byte) {
	copy(p.data[offset:], data)
}

// RLatch/RUnlatch/WLatch/WUnlatch acquire and release the frame's
// reader/writer latch. Always called after the pool mutex has been
// released; never call these while holding the pool mutex.
func (p *Page) RLatch()   { p.latch.RLock() }
func (p *Page) RUnlatch() { p.latch.RUnlock() }
func (p *Page) WLatch()   { p.latch.WLock() }
func (p *Page) WUnlatch() { p.latch.WUnlock() }
