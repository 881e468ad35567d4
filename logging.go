package cutter

import (
	"os"

	"github.com/charmbracelet/log"
)

// newLogger creates a charm logger scoped to one subsystem prefix. It
// never affects segmentation results -- only what gets written to stderr
// while building or using a Segmenter.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
