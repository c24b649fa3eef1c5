package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const bannerLayout = "2006-01-02 15:04:05"

// ErrorLog is an append-only file that collects Warn and Error records of a
// single process run between a start and a stop banner.
type ErrorLog struct {
	mu      sync.Mutex
	w       io.WriteCloser
	handler slog.Handler
	now     func() time.Time
	closed  bool
}

// OpenErrorLog opens path for appending, creating parent directories, and
// writes the start banner. An empty path returns a nil *ErrorLog, which is
// valid to Close and to pass to NewLogger.
func OpenErrorLog(path string) (*ErrorLog, error) {
	if path == "" {
		return nil, nil //nolint:nilnil // no error log configured
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create error log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	return newErrorLog(f, time.Now)
}

func newErrorLog(w io.WriteCloser, now func() time.Time) (*ErrorLog, error) {
	e := &ErrorLog{w: w, now: now}
	e.handler = slog.NewTextHandler(lockedWriter{e}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if err := e.banner("started"); err != nil {
		_ = w.Close() //nolint:errcheck // the banner error is reported
		return nil, err
	}
	return e, nil
}

// Handler returns the slog handler that appends Warn and Error records.
func (e *ErrorLog) Handler() slog.Handler {
	if e == nil {
		return nil
	}
	return e.handler
}

// Close writes the stop banner and closes the file.
func (e *ErrorLog) Close() error {
	if e == nil {
		return nil
	}
	bannerErr := e.banner("stopped")

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.w.Close(); err != nil {
		return fmt.Errorf("failed to close error log: %w", err)
	}
	return bannerErr
}

func (e *ErrorLog) banner(event string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	_, err := fmt.Fprintf(e.w, "==== woodspider %s %s ====\n", event, e.now().Format(bannerLayout))
	if err != nil {
		return fmt.Errorf("failed to write error log banner: %w", err)
	}
	return nil
}

// lockedWriter serializes handler output with the banners.
type lockedWriter struct {
	e *ErrorLog
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	if l.e.closed {
		return len(p), nil
	}
	return l.e.w.Write(p)
}
