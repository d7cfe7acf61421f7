package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	bperrors "github.com/ryogrid/bufferpool/errors"
	"github.com/ryogrid/bufferpool/types"
)

func TestLRUKReplacerEvictionLaw(t *testing.T) {
	// pool_size=3, K=2. Frames 0="A", 1="B", 2="C".
	r := NewLRUKReplacer(3, 2)

	for _, fid := range []types.FrameID{0, 1, 2, 0, 1, 0, 1} {
		assert.NoError(t, r.RecordAccess(fid))
	}
	for _, fid := range []types.FrameID{0, 1, 2} {
		assert.NoError(t, r.SetEvictable(fid, true))
	}
	assert.Equal(t, 3, r.Size())

	// C has only one access (length < K), so its backward distance is
	// infinite — the only infinite-distance frame here, so it's evicted
	// ahead of A and B even though neither of them was "least recently
	// used" in the classical sense.
	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, types.FrameID(2), victim)
	assert.Equal(t, 2, r.Size())

	// D reuses frame 2 and is pinned (not evictable) — current_timestamp
	// is now 8.
	assert.NoError(t, r.RecordAccess(2))

	// Now only A (0) and B (1) are evictable. A's 2nd-most-recent access
	// was t=4, B's was t=5; backward distance from t=8 is 4 for A, 3 for
	// B, so A — being further back — is evicted.
	victim, ok = r.Evict()
	assert.True(t, ok)
	assert.Equal(t, types.FrameID(0), victim)
}

func TestLRUKReplacerTieBreaksOnOldestFront(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	// Both frames get exactly one access each — both at infinite
	// distance. The tie is broken by whichever has the older front.
	assert.NoError(t, r.RecordAccess(0)) // t=1
	assert.NoError(t, r.RecordAccess(1)) // t=2
	assert.NoError(t, r.SetEvictable(0, true))
	assert.NoError(t, r.SetEvictable(1, true))

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, types.FrameID(0), victim)
}

func TestLRUKReplacerSetEvictableIsIdempotentNoOp(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	assert.NoError(t, r.RecordAccess(1))
	assert.NoError(t, r.SetEvictable(1, true))
	assert.Equal(t, 1, r.Size())
	assert.NoError(t, r.SetEvictable(1, true))
	assert.Equal(t, 1, r.Size())

	// unknown frame id: no-op, not an error
	assert.NoError(t, r.SetEvictable(3, true))
	assert.Equal(t, 1, r.Size())
}

func TestLRUKReplacerNoEvictableReturnsFalse(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	assert.NoError(t, r.RecordAccess(0))
	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestLRUKReplacerRemove(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	assert.NoError(t, r.RecordAccess(0))

	// tracked but not evictable
	err := r.Remove(0)
	assert.ErrorIs(t, err, bperrors.ErrInvalid)

	assert.NoError(t, r.SetEvictable(0, true))
	assert.NoError(t, r.Remove(0))
	assert.Equal(t, 0, r.Size())

	// unknown frame: no-op
	assert.NoError(t, r.Remove(0))
}

func TestLRUKReplacerOutOfRange(t *testing.T) {
	r := NewLRUKReplacer(4, 2)

	assert.ErrorIs(t, r.RecordAccess(4), bperrors.ErrOutOfRange)
	assert.ErrorIs(t, r.RecordAccess(-1), bperrors.ErrOutOfRange)
	assert.ErrorIs(t, r.SetEvictable(4, true), bperrors.ErrOutOfRange)
	assert.ErrorIs(t, r.Remove(4), bperrors.ErrOutOfRange)
}
