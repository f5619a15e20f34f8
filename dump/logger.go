package dump

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger. It is a no-op logger unless
// SetLogger was called first.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs a logger for decode diagnostics (section
// resynchronization, unknown opcodes and sections). Call it before the
// first decode.
func SetLogger(l *zap.Logger) {
	logger = l
}
