package engine

import (
	"fmt"
	"sync/atomic"
)

// LogLevel classifies engine log events.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogOutput
	LogError
	LogWarning
	LogTrace
	LogDebug
)

// String returns the level's lowercase name.
func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogOutput:
		return "output"
	case LogError:
		return "error"
	case LogWarning:
		return "warning"
	case LogTrace:
		return "trace"
	case LogDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// LogFunc receives engine log events.
type LogFunc func(level LogLevel, msg string)

// logger is the single process-wide logger slot. The engine API has
// exactly one; registration replaces whatever was there before.
var logger atomic.Pointer[LogFunc]

// SetLogger installs the process-wide logger hook. Last registration
// wins. A nil hook clears the slot.
func SetLogger(fn LogFunc) {
	if fn == nil {
		logger.Store(nil)
		return
	}
	logger.Store(&fn)
}

// Logf formats and delivers a log event to the installed hook, if any.
// Engine implementations call this for every diagnostic they emit.
func Logf(level LogLevel, format string, args ...any) {
	fn := logger.Load()
	if fn == nil {
		return
	}
	(*fn)(level, fmt.Sprintf(format, args...))
}
