// Package logging opens the file logger shared by the client and the TUI.
// Bubbletea owns the terminal, so nothing is ever logged to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Open returns a logger writing to path at the given level. An empty path
// returns a nil logger, which every component treats as "logging off".
// The returned closer must be closed on exit.
func Open(path, level, prefix string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return nil, io.NopCloser(nil), nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
		Level:           lvl,
	})
	return logger, f, nil
}
