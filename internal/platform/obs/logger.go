package obs

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	loggerMu sync.RWMutex
	logger   = NewLogger(os.Stderr, "info")
)

// NewLogger builds a logfmt logger filtered at the given level name
// (debug, info, warn, error). Unknown names fall back to info.
func NewLogger(w io.Writer, levelName string) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	l = log.With(l, "ts", log.DefaultTimestampUTC)

	var opt level.Option
	switch strings.ToLower(strings.TrimSpace(levelName)) {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}

	return level.NewFilter(l, opt)
}

// Logger returns the process-wide logger.
func Logger() log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the process-wide logger. Call it once from main.
func SetLogger(l log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}
