package main

import (
	"io"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a charm logger on w, at debug level when asked
func SetupLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: debug,
		Prefix:          "plot-summary",
	})
}
