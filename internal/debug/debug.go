package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	once   sync.Once
	path   = "/tmp/notebook-debug.log"
	logger *slog.Logger
)

// SetPath sets the log file. It has no effect once GetLogger has been called.
func SetPath(p string) {
	if p != "" {
		path = p
	}
}

// GetLogger returns a singleton slog logger instance
func GetLogger() *slog.Logger {
	once.Do(func() {
		var w io.Writer = io.Discard
		if f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666); err == nil {
			w = f
		}
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	})
	return logger
}
