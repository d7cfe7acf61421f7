package types

// FrameID indexes into the buffer pool's frame array. Kept as a
// distinct type from PageID so the two can never be mixed up at a call
// site without an explicit conversion.
type FrameID int32

// InvalidFrameID is the reserved sentinel frame index.
const InvalidFrameID = FrameID(-1)
