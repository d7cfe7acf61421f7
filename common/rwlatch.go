package common

import (
	deadlock "github.com/sasha-s/go-deadlock"
)

// ReaderWriterLatch is the per-frame latch used by page guards. It is
// orthogonal to the pool-wide mutex: guards acquire it only after the
// pool mutex has already been released.
type ReaderWriterLatch interface {
	WLock()
	WUnlock()
	RLock()
	RUnlock()
}

type readerWriterLatch struct {
	mutex deadlock.RWMutex
}

// NewRWLatch returns a fresh, unlocked frame latch. Backed by
// sasha-s/go-deadlock rather than sync.RWMutex so that a violation of
// the pool-mutex-then-frame-latch ordering, or two frame latches held
// at once, surfaces as a deadlock-detector report instead of a silent
// hang.
func NewRWLatch() ReaderWriterLatch {
	return &readerWriterLatch{}
}

func (l *readerWriterLatch) WLock()   { l.mutex.Lock() }
func (l *readerWriterLatch) WUnlock() { l.mutex.Unlock() }
func (l *readerWriterLatch) RLock()   { l.mutex.RLock() }
func (l *readerWriterLatch) RUnlock() { l.mutex.RUnlock() }
