// There are no destructors in Go, so "drop on every exit path" is the
// caller's job via `defer guard.Drop()` — but Drop is idempotent, so a
// guard can be dropped early and then deferred-dropped again for free.

package buffer

import (
	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/storage/page"
	"github.com/ryogrid/bufferpool/types"
)

type innerGuard struct {
	bpm     *BufferPoolManager
	frame   *page.Page
	isDirty bool
}

func (g *innerGuard) pageID() types.PageID {
	if g.frame == nil {
		return types.InvalidPageID
	}
	return g.frame.PageID()
}

// BasicPageGuard is a scoped pin: constructing one (via BufferPoolManager's
// FetchPageBasic/NewPageGuarded) holds a pin that Drop releases exactly
// once. It does not hold a frame latch — callers that need shared or
// exclusive access should call UpgradeRead/UpgradeWrite, or have the
// buffer pool manager hand them a ReadPageGuard/WritePageGuard directly.
//
// There is no compiler-enforced move-only discipline in Go; by
// convention a BasicPageGuard should have exactly one active owner and
// should not be copied after first use. The pin is released by the
// first Drop (often a deferred one); later calls to Drop are no-ops.
type BasicPageGuard struct {
	inner innerGuard
}

func newBasicPageGuard(bpm *BufferPoolManager, frame *page.Page) BasicPageGuard {
	return BasicPageGuard{inner: innerGuard{bpm: bpm, frame: frame}}
}

// PageID returns the guarded frame's page id, or types.InvalidPageID if
// the guard has already been dropped or was never valid (e.g. the pool
// was full when it was constructed).
func (g *BasicPageGuard) PageID() types.PageID { return g.inner.pageID() }

// Valid reports whether this guard still holds a pin.
func (g *BasicPageGuard) Valid() bool { return g.inner.frame != nil }

// Data returns the guarded frame's buffer. Only meaningful while Valid.
func (g *BasicPageGuard) Data() *[common.PageSize]byte {
	if g.inner.frame == nil {
		return nil
	}
	return g.inner.frame.Data()
}

// SetDirty marks the guarded page dirty; UnpinPage will OR this in on
// Drop.
func (g *BasicPageGuard) SetDirty(dirty bool) { g.inner.isDirty = dirty }

// Drop releases the pin this guard holds, exactly once. Safe to call
// more than once or on an already-invalid guard.
func (g *BasicPageGuard) Drop() {
	if g.inner.frame == nil {
		return
	}
	g.inner.bpm.UnpinPage(g.inner.frame.PageID(), g.inner.isDirty)
	g.inner.frame = nil
	g.inner.bpm = nil
	g.inner.isDirty = false
}

// UpgradeRead hands this guard's pin off to a ReadPageGuard and
// acquires the frame's shared latch. The receiver is left invalid
// (Drop becomes a no-op) — ownership has moved.
func (g *BasicPageGuard) UpgradeRead() ReadPageGuard {
	frame := g.inner.frame
	bpm := g.inner.bpm
	isDirty := g.inner.isDirty
	g.inner.frame = nil
	g.inner.bpm = nil

	if frame != nil {
		frame.RLatch()
	}
	return ReadPageGuard{inner: innerGuard{bpm: bpm, frame: frame, isDirty: isDirty}}
}

// UpgradeWrite hands this guard's pin off to a WritePageGuard and
// acquires the frame's exclusive latch. The receiver is left invalid.
func (g *BasicPageGuard) UpgradeWrite() WritePageGuard {
	frame := g.inner.frame
	bpm := g.inner.bpm
	isDirty := g.inner.isDirty
	g.inner.frame = nil
	g.inner.bpm = nil

	if frame != nil {
		frame.WLatch()
	}
	return WritePageGuard{inner: innerGuard{bpm: bpm, frame: frame, isDirty: isDirty}}
}

// ReadPageGuard holds a pin plus the frame's shared latch, acquired
// after the pool mutex was released by whichever BufferPoolManager
// call constructed it.
type ReadPageGuard struct {
	inner innerGuard
}

func newReadPageGuard(bpm *BufferPoolManager, frame *page.Page) ReadPageGuard {
	return ReadPageGuard{inner: innerGuard{bpm: bpm, frame: frame}}
}

// PageID returns the guarded frame's page id, or types.InvalidPageID
// once dropped.
func (g *ReadPageGuard) PageID() types.PageID { return g.inner.pageID() }

// Valid reports whether this guard still holds its pin and latch.
func (g *ReadPageGuard) Valid() bool { return g.inner.frame != nil }

// Data returns the guarded frame's buffer for reading.
func (g *ReadPageGuard) Data() *[common.PageSize]byte {
	if g.inner.frame == nil {
		return nil
	}
	return g.inner.frame.Data()
}

// Drop releases the shared latch, then releases the pin. Idempotent.
// The latch must come off first: only once it's gone can the pool
// safely see the frame as evictable (zero pin count) without a
// concurrent fetch reclaiming it while this guard still nominally
// holds it latched.
func (g *ReadPageGuard) Drop() {
	if g.inner.frame == nil {
		return
	}
	frame := g.inner.frame
	frame.RUnlatch()
	g.inner.bpm.UnpinPage(frame.PageID(), g.inner.isDirty)
	g.inner.frame = nil
	g.inner.bpm = nil
}

// WritePageGuard holds a pin plus the frame's exclusive latch.
type WritePageGuard struct {
	inner innerGuard
}

func newWritePageGuard(bpm *BufferPoolManager, frame *page.Page) WritePageGuard {
	return WritePageGuard{inner: innerGuard{bpm: bpm, frame: frame}}
}

// PageID returns the guarded frame's page id, or types.InvalidPageID
// once dropped.
func (g *WritePageGuard) PageID() types.PageID { return g.inner.pageID() }

// Valid reports whether this guard still holds its pin and latch.
func (g *WritePageGuard) Valid() bool { return g.inner.frame != nil }

// Data returns the guarded frame's buffer for reading or writing. A
// WritePageGuard implicitly marks the page dirty on Drop — any holder
// is assumed to have the right to mutate.
func (g *WritePageGuard) Data() *[common.PageSize]byte {
	if g.inner.frame == nil {
		return nil
	}
	g.inner.isDirty = true
	return g.inner.frame.Data()
}

// Drop releases the exclusive latch, then releases the pin. Idempotent.
// Same ordering constraint as ReadPageGuard.Drop: release the latch
// before the pin count can reach zero.
func (g *WritePageGuard) Drop() {
	if g.inner.frame == nil {
		return
	}
	frame := g.inner.frame
	frame.WUnlatch()
	g.inner.bpm.UnpinPage(frame.PageID(), g.inner.isDirty)
	g.inner.frame = nil
	g.inner.bpm = nil
}
