// Package logger provides test helpers for structured logging.
package logger

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// NewTestLogger creates a logger for tests.
// By default, uses WARN level to keep test output quiet.
// Set TEST_DEBUG environment variable to enable debug logging in tests.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn // Quiet by default

	// Allow tests to enable debug logging
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// Capture collects text log records written from any goroutine.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Lines returns the records captured so far, one per line.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := strings.TrimSpace(c.buf.String())
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Contains reports whether any record contains all the given fragments.
func (c *Capture) Contains(fragments ...string) bool {
	for _, line := range c.Lines() {
		matched := true
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// NewCaptureLogger creates a debug level text logger that records into a Capture.
func NewCaptureLogger() (*slog.Logger, *Capture) {
	capture := &Capture{}
	logger := NewLogger(Config{
		Level:  slog.LevelDebug,
		Format: "text",
		Output: capture,
	})
	return logger, capture
}
