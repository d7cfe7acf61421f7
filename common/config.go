package common

const (
	// PageSize is the size in bytes of a page / frame. Every frame
	// buffer and every disk transfer uses exactly this size.
	PageSize = 4096

	// DefaultReplacerK is the customary history depth to pass as
	// NewBufferPoolManager's replacerK; that argument is always required
	// and nothing applies this value automatically.
	DefaultReplacerK = 2
)

// EnableDebug gates the ShPrintf debug tracing below. Off by default;
// tests that want to see cache-in/cache-out tracing flip it on.
var EnableDebug = false

// ActiveLogKindSetting is a bitmask of LogLevel values controlling which
// categories of debug trace are emitted when EnableDebug is true.
var ActiveLogKindSetting LogLevel = DEBUG_INFO | CACHE_OUT_IN_INFO
