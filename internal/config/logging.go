package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates a timestamped logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown levels mean info.
func NewLogger(w io.Writer, level string, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}
