// Package synthlog wires structured logging for the recoverable load-time
// error paths (table/sample registration, WAV parsing). It is never
// called from the audio render path.
package synthlog

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	once    sync.Once
	defLog  *log.Logger
)

// Default returns the process-wide logger, created lazily with a prefix
// suited to library output (callers embedding this engine typically want
// their own handler; this is the fallback used by the demo CLI).
func Default() *log.Logger {
	once.Do(func() {
		defLog = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "polyvoice",
		})
	})
	return defLog
}

// WarnLoad logs a recoverable load-time problem (table/sample/WAV) at
// warn level with structured key-values.
func WarnLoad(msg string, kv ...interface{}) {
	Default().Warn(msg, kv...)
}
