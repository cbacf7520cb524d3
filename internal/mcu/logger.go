package mcu

import (
	"log/slog"
	"os"

	"github.com/simkit/avrsim/internal/engine"
)

// exit is swapped out in tests.
var exit = os.Exit

// diagnostics is the process-wide logger hook registered on the engine.
//
// Policy: NONE/OUTPUT/TRACE/DEBUG events are discarded. WARNING is
// surfaced and execution continues. ERROR terminates the process: the
// engine logging at error level means it is no longer in a well-defined
// state, and continuing against a corrupted model is worse than dying.
func diagnostics(level engine.LogLevel, msg string) {
	switch level {
	case engine.LogWarning:
		slog.Warn("engine warning", "message", msg)
	case engine.LogError:
		slog.Error("engine error", "message", msg)
		exit(1)
	}
}
