// Package logging wires the diagnostic log sinks: an append-only log file
// plus the process's stderr stream.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the injected process logger. It owns the log file handle and must
// be closed at shutdown.
type Logger struct {
	*log.Logger
	file *os.File
}

// New opens the append-only log file at path and returns a logger writing to
// both the file and stderr.
func New(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(io.MultiWriter(file, os.Stderr), log.Options{
		ReportTimestamp: true,
		Prefix:          "story-mcp",
	})
	logger.SetLevel(log.InfoLevel)

	return &Logger{Logger: logger, file: file}, nil
}

// NewNop returns a logger that discards everything. Test use only.
func NewNop() *Logger {
	logger := log.New(io.Discard)
	return &Logger{Logger: logger}
}

// Close releases the log file handle.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
