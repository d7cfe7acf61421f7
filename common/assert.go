package common

import (
	"fmt"
	"runtime"

	"github.com/devlights/gomy/output"
)

// Assert panics with msg if condition is false. Used for invariant
// violations that indicate a bug in this package, never for
// caller-predictable conditions (those return bool/nil instead).
func Assert(condition bool, format string, a ...interface{}) {
	if !condition {
		panic(fmt.Sprintf(format, a...))
	}
}

// DumpGoroutineStacks prints every goroutine's stack trace to stdout.
// Called right before panicking on a replacer/pool invariant violation
// (e.g. requestFrame finding no victim while frames are tracked as
// evictable) so the failure is diagnosable from a single run instead of
// needing to reproduce under a debugger.
func DumpGoroutineStacks() {
	buf := make([]byte, 1<<16)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			output.Stdoutl("=== goroutine dump ===", string(buf[:n]))
			return
		}
		buf = make([]byte, 2*len(buf))
	}
}
