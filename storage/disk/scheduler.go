package disk

import "github.com/ryogrid/bufferpool/types"

// Promise is the one-shot completion channel for a scheduled request:
// a plain buffered channel of capacity 1, a bounded single-value
// mailbox a caller can safely send into without blocking.
type Promise chan bool

// Future is the receive-only view of a Promise handed to whoever must
// wait for the request to finish.
type Future <-chan bool

// Request describes one scheduled disk operation. Buf aliases a
// frame's data buffer directly: the scheduler reads or writes into it
// in place, so the caller must not touch Buf again until Completion
// fires.
type Request struct {
	IsWrite    bool
	Buf        []byte
	PageID     types.PageID
	Completion Promise
}

// Scheduler serializes disk I/O through a single background worker so
// that Schedule never blocks its caller on a raw disk syscall. Disk
// operations execute strictly in FIFO submission order; no reordering
// or concurrent I/O is permitted.
type Scheduler struct {
	diskManager DiskManager
	queue       chan *Request // nil *Request is the shutdown sentinel
	done        chan struct{}
}

// NewScheduler starts the background worker and returns a Scheduler
// bound to diskManager.
func NewScheduler(diskManager DiskManager) *Scheduler {
	s := &Scheduler{
		diskManager: diskManager,
		queue:       make(chan *Request, 256),
		done:        make(chan struct{}),
	}
	go s.workerLoop()
	return s
}

// CreatePromise returns a fresh promise/future pair for a request the
// caller is about to Schedule.
func (s *Scheduler) CreatePromise() (Promise, Future) {
	p := make(Promise, 1)
	return p, Future((<-chan bool)(p))
}

// Schedule enqueues req and returns without waiting for the I/O. The
// queue holds at most 256 pending requests; while it is full, Schedule
// blocks until the worker takes one off. The caller awaits
// req.Completion to learn when the I/O has landed.
func (s *Scheduler) Schedule(req *Request) {
	s.queue <- req
}

// Shutdown enqueues the sentinel that tells the worker to drain
// whatever's already queued and exit, then blocks until it has. Safe
// to call exactly once.
func (s *Scheduler) Shutdown() {
	s.queue <- nil
	<-s.done
}

func (s *Scheduler) workerLoop() {
	defer close(s.done)
	for req := range s.queue {
		if req == nil {
			return
		}
		if req.IsWrite {
			s.diskManager.WritePage(req.PageID, req.Buf)
		} else {
			s.diskManager.ReadPage(req.PageID, req.Buf)
		}
		req.Completion <- true
	}
}
