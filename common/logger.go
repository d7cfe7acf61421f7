package common

import "fmt"

// LogLevel is a bitmask of trace categories; ShPrintf only prints when
// the caller's level intersects ActiveLogKindSetting.
type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1 << iota
	DEBUG_INFO
	CACHE_OUT_IN_INFO
	PIN_COUNT_TRACE
	WARN
	ERROR
)

// ShPrintf prints a debug trace line when debugging is enabled and
// logLevel is one of the active categories.
func ShPrintf(logLevel LogLevel, format string, a ...interface{}) {
	if EnableDebug && logLevel&ActiveLogKindSetting > 0 {
		fmt.Printf(format, a...)
	}
}
