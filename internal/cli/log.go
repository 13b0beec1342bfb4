// Package cli implements the masonry command-line interface.
//
// The CLI reads item sets from disk, runs them through the layout pipeline
// and writes the placed cards as JSON. It is built with cobra and logs with
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Lay out an item set and write the result
//   - preview: Show a layout in the terminal, re-laid out on every resize
//   - serve: Run the HTTP API
//   - history: List and show saved layouts
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports cache hits and layout metrics through the observability hooks.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Placed 42 cards (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
