package buffer

import (
	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/ryogrid/bufferpool/common"
	"github.com/ryogrid/bufferpool/storage/disk"
	"github.com/ryogrid/bufferpool/storage/page"
	"github.com/ryogrid/bufferpool/types"
)

// BufferPoolManager is the top-level buffer pool API: it owns the
// frame array, page table, free list, replacer and disk scheduler, and
// serializes all public operations on a single pool-wide mutex. The
// replacer's own mutex is always acquired while this mutex is held
// (pool -> replacer), and per-frame latches (acquired by page guards)
// are only ever taken after this mutex has been released.
type BufferPoolManager struct {
	mu deadlock.Mutex

	poolSize  int
	frames    []*page.Page
	replacer  *LRUKReplacer
	freeList  []types.FrameID
	pageTable map[types.PageID]types.FrameID

	scheduler   *disk.Scheduler
	diskManager disk.DiskManager
}

// NewBufferPoolManager constructs a pool of poolSize frames, backed by
// diskManager, with an LRU-K replacer of history depth replacerK. All
// frames start in the FreeList state: empty, unpinned, clean.
func NewBufferPoolManager(poolSize int, diskManager disk.DiskManager, replacerK int) *BufferPoolManager {
	frames := make([]*page.Page, poolSize)
	freeList := make([]types.FrameID, poolSize)
	for i := 0; i < poolSize; i++ {
		frames[i] = page.NewEmptyFrame()
		freeList[i] = types.FrameID(i)
	}

	return &BufferPoolManager{
		poolSize:    poolSize,
		frames:      frames,
		replacer:    NewLRUKReplacer(poolSize, replacerK),
		freeList:    freeList,
		pageTable:   make(map[types.PageID]types.FrameID),
		scheduler:   disk.NewScheduler(diskManager),
		diskManager: diskManager,
	}
}

// Shutdown drains and stops the background disk scheduler. Call once,
// after all other operations have completed.
func (b *BufferPoolManager) Shutdown() {
	b.scheduler.Shutdown()
}

// PoolSize returns the number of frames this pool manages.
func (b *BufferPoolManager) PoolSize() int { return b.poolSize }

// diskScheduleSync schedules one disk operation and blocks until it
// completes, so fetch/flush callers always see the I/O land before
// returning. The pool mutex is held across the wait; with a
// single-worker scheduler there is never a second in-flight request to
// interleave with anyway, so holding it costs nothing in practice.
func (b *BufferPoolManager) diskScheduleSync(isWrite bool, buf []byte, pageID types.PageID) {
	promise, future := b.scheduler.CreatePromise()
	b.scheduler.Schedule(&disk.Request{IsWrite: isWrite, Buf: buf, PageID: pageID, Completion: promise})
	<-future
}

// flushFrameLocked writes frame's contents back to disk if dirty, and
// clears the dirty flag. Must be called with mu held. The dirty-flush
// gate is the dirty flag alone — never content-dependent.
func (b *BufferPoolManager) flushFrameLocked(frame *page.Page) {
	if !frame.IsDirty() {
		return
	}
	data := frame.Data()
	b.diskScheduleSync(true, data[:], frame.PageID())
	frame.ClearDirty()
}

// requestFrame finds a frame to hand to a new or fetched page: pop the
// free list if non-empty, else ask the replacer to evict, else report
// failure.
func (b *BufferPoolManager) requestFrame() (types.FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, true
	}

	frameID, ok := b.replacer.Evict()
	if !ok {
		if b.replacer.Size() > 0 {
			common.DumpGoroutineStacks()
			common.Assert(false, "requestFrame: replacer reports %d evictable frames but Evict() found none", b.replacer.Size())
		}
		return types.InvalidFrameID, false
	}
	return frameID, true
}

// reclaimFrameLocked prepares frameID's frame for reuse: flushes it if
// dirty, drops its old page-table entry (if any), and zeroes it.
func (b *BufferPoolManager) reclaimFrameLocked(frameID types.FrameID) {
	frame := b.frames[frameID]
	if frame.PageID() != types.InvalidPageID {
		b.flushFrameLocked(frame)
		delete(b.pageTable, frame.PageID())
	}
	frame.ResetMemory()
}

// installFrameLocked gives frameID's frame a fresh identity: pinned
// once, clean, tracked by the replacer as non-evictable, and inserted
// into the page table.
func (b *BufferPoolManager) installFrameLocked(frameID types.FrameID, pageID types.PageID) *page.Page {
	frame := b.frames[frameID]
	frame.SetPageID(pageID)
	frame.IncPinCount()

	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)
	b.pageTable[pageID] = frameID

	return frame
}

// NewPage allocates a fresh page id and pins it into a frame, without
// reading anything from disk. Returns (id, frame, true), or
// (types.InvalidPageID, nil, false) if the pool is full (every frame
// pinned, nothing evictable).
func (b *BufferPoolManager) NewPage() (types.PageID, *page.Page, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.requestFrame()
	if !ok {
		return types.InvalidPageID, nil, false
	}

	b.reclaimFrameLocked(frameID)

	pageID := b.diskManager.AllocatePage()

	frame := b.installFrameLocked(frameID, pageID)
	common.ShPrintf(common.CACHE_OUT_IN_INFO, "NewPage: allocated pageId=%d frameId=%d\n", pageID, frameID)
	return pageID, frame, true
}

// FetchPage returns the requested page, pinned, reading it from disk
// if it isn't already resident. Returns (nil, false) if there is no
// free frame and no victim could be found.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) (*page.Page, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.pageTable[pageID]; ok {
		frame := b.frames[frameID]
		frame.IncPinCount()
		b.replacer.SetEvictable(frameID, false)
		b.replacer.RecordAccess(frameID)
		common.ShPrintf(common.DEBUG_INFO, "FetchPage: pageId=%d pinCount=%d (resident)\n", pageID, frame.PinCount())
		return frame, true
	}

	frameID, ok := b.requestFrame()
	if !ok {
		return nil, false
	}

	b.reclaimFrameLocked(frameID)
	frame := b.installFrameLocked(frameID, pageID)

	data := frame.Data()
	b.diskScheduleSync(false, data[:], pageID)

	common.ShPrintf(common.CACHE_OUT_IN_INFO, "FetchPage: cache-in pageId=%d frameId=%d\n", pageID, frameID)
	return frame, true
}

// UnpinPage releases one pin on pageID. Returns false if the page
// isn't resident or is already unpinned. isDirtyNow is OR'd into the
// frame's dirty flag — this never clears it.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirtyNow bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}

	frame := b.frames[frameID]
	if frame.PinCount() == 0 {
		return false
	}

	frame.DecPinCount()
	if frame.PinCount() == 0 {
		b.replacer.SetEvictable(frameID, true)
	}
	frame.SetDirty(isDirtyNow)

	return true
}

// FlushPage schedules a write of pageID's current contents and clears
// its dirty flag. Returns false if the page isn't resident. The write
// is always issued, even if the page happens to be clean already.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}

	frame := b.frames[frameID]
	data := frame.Data()
	b.diskScheduleSync(true, data[:], pageID)
	frame.ClearDirty()
	return true
}

// FlushAllPages flushes every resident page, clearing every dirty
// flag.
func (b *BufferPoolManager) FlushAllPages() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for pageID, frameID := range b.pageTable {
		frame := b.frames[frameID]
		data := frame.Data()
		b.diskScheduleSync(true, data[:], pageID)
		frame.ClearDirty()
	}
}

// DeletePage removes pageID from the pool. Returns true if pageID
// wasn't resident (vacuously deleted) or was resident and unpinned
// (and is now gone); returns false if it's resident but pinned.
// Deallocation of the underlying disk-level page id is delegated to
// the disk manager and is a no-op in this design.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return true
	}

	frame := b.frames[frameID]
	if frame.PinCount() > 0 {
		return false
	}

	delete(b.pageTable, pageID)
	b.replacer.Remove(frameID)
	b.freeList = append(b.freeList, frameID)

	frame.ResetMemory()
	b.diskManager.DeallocatePage(pageID)

	return true
}

// FetchPageBasic fetches pageID and wraps it in a BasicPageGuard. If
// the pool is full, the returned guard is invalid (Valid() == false).
func (b *BufferPoolManager) FetchPageBasic(pageID types.PageID) BasicPageGuard {
	frame, _ := b.FetchPage(pageID)
	return newBasicPageGuard(b, frame)
}

// FetchPageRead fetches pageID, acquires its shared latch, and returns
// a ReadPageGuard. The latch is acquired after FetchPage has already
// released the pool mutex.
func (b *BufferPoolManager) FetchPageRead(pageID types.PageID) ReadPageGuard {
	frame, ok := b.FetchPage(pageID)
	if ok {
		frame.RLatch()
	}
	return newReadPageGuard(b, frame)
}

// FetchPageWrite fetches pageID, acquires its exclusive latch, and
// returns a WritePageGuard.
func (b *BufferPoolManager) FetchPageWrite(pageID types.PageID) WritePageGuard {
	frame, ok := b.FetchPage(pageID)
	if ok {
		frame.WLatch()
	}
	return newWritePageGuard(b, frame)
}

// NewPageGuarded allocates a new page and wraps it in a BasicPageGuard,
// returning the assigned page id alongside it.
func (b *BufferPoolManager) NewPageGuarded() (types.PageID, BasicPageGuard) {
	pageID, frame, ok := b.NewPage()
	if !ok {
		return types.InvalidPageID, newBasicPageGuard(b, nil)
	}
	return pageID, newBasicPageGuard(b, frame)
}
