package buffer

import (
	deadlock "github.com/sasha-s/go-deadlock"

	bperrors "github.com/ryogrid/bufferpool/errors"
	"github.com/ryogrid/bufferpool/types"
)

const infiniteDistance = ^uint64(0)

type replacerNode struct {
	history     []uint64 // oldest first, capped at k entries
	isEvictable bool
}

// LRUKReplacer tracks access history for frames currently owned by the
// buffer pool manager and picks an eviction victim on request. K
// controls scan resistance: a frame with fewer than K recorded
// accesses has infinite backward distance, so one-shot scans are
// preferred for eviction over pages with a real access history.
type LRUKReplacer struct {
	mu               deadlock.Mutex
	replacerSize     int
	k                int
	currentTimestamp uint64
	nodes            map[types.FrameID]*replacerNode
	evictableCount   int
}

// NewLRUKReplacer returns a replacer that can track up to
// replacerSize frames with history depth k.
func NewLRUKReplacer(replacerSize int, k int) *LRUKReplacer {
	return &LRUKReplacer{
		replacerSize: replacerSize,
		k:            k,
		nodes:        make(map[types.FrameID]*replacerNode),
	}
}

func (r *LRUKReplacer) checkRange(frameID types.FrameID) error {
	if frameID < 0 || int(frameID) >= r.replacerSize {
		return bperrors.ErrOutOfRange
	}
	return nil
}

// RecordAccess advances current_timestamp and appends it to frameID's
// history, trimming to the most recent K entries. Does not change
// evictability. Returns ErrOutOfRange if frameID is outside
// [0, replacerSize).
func (r *LRUKReplacer) RecordAccess(frameID types.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkRange(frameID); err != nil {
		return err
	}

	r.currentTimestamp++

	node, ok := r.nodes[frameID]
	if !ok {
		node = &replacerNode{}
		r.nodes[frameID] = node
	}
	node.history = append(node.history, r.currentTimestamp)
	if len(node.history) > r.k {
		node.history = node.history[len(node.history)-r.k:]
	}
	return nil
}

// SetEvictable sets frameID's evictable flag, updating evictableCount.
// A no-op if frameID is untracked or the flag is already what's
// requested. Returns ErrOutOfRange on a bad id.
func (r *LRUKReplacer) SetEvictable(frameID types.FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkRange(frameID); err != nil {
		return err
	}

	node, ok := r.nodes[frameID]
	if !ok {
		return nil
	}
	if node.isEvictable == evictable {
		return nil
	}
	node.isEvictable = evictable
	if evictable {
		r.evictableCount++
	} else {
		r.evictableCount--
	}
	return nil
}

// Evict selects, among evictable frames, the one with the largest
// backward K-distance (current_timestamp - Kth-most-recent access
// time; infinite if fewer than K accesses). Ties are broken by the
// smallest (oldest) timestamp at the front of history. The winner is
// removed from tracking. Returns (frameID, true), or
// (types.InvalidFrameID, false) if nothing is evictable.
func (r *LRUKReplacer) Evict() (types.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	victim := types.InvalidFrameID
	found := false
	var maxDistance uint64

	for fid, node := range r.nodes {
		if !node.isEvictable {
			continue
		}

		var distance uint64
		if len(node.history) < r.k {
			distance = infiniteDistance
		} else {
			distance = r.currentTimestamp - node.history[0]
		}

		if !found ||
			distance > maxDistance ||
			(distance == maxDistance && node.history[0] < r.nodes[victim].history[0]) {
			maxDistance = distance
			victim = fid
			found = true
		}
	}

	if !found {
		return types.InvalidFrameID, false
	}

	delete(r.nodes, victim)
	r.evictableCount--
	return victim, true
}

// Remove explicitly drops frameID's tracking. No-op if untracked.
// Returns ErrOutOfRange on a bad id, ErrInvalid if frameID is tracked
// but not evictable.
func (r *LRUKReplacer) Remove(frameID types.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkRange(frameID); err != nil {
		return err
	}

	node, ok := r.nodes[frameID]
	if !ok {
		return nil
	}
	if !node.isEvictable {
		return bperrors.ErrInvalid
	}

	delete(r.nodes, frameID)
	r.evictableCount--
	return nil
}

// Size returns the number of frames currently evictable.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}
