// Package logging configures the append-only invocation log.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Runtime bundles the configured logger and its open file handle lifecycle.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	closer io.Closer
}

// Close flushes and closes the logger output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New opens the log file at path and builds a text logger. When echo is
// non-nil, log lines are mirrored to it as well; the CLI passes its stderr
// there when --log is set.
func New(path string, echo io.Writer) (Runtime, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Runtime{}, fmt.Errorf("open log file %q: %w", path, err)
	}

	var w io.Writer = f
	if echo != nil {
		w = io.MultiWriter(f, echo)
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return Runtime{Logger: slog.New(h), Path: path, closer: f}, nil
}
