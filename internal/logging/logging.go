// Package logging builds the structured logger shared by the excmd packages.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/excmd/internal/config"
)

// New returns a logger writing to w configured by cfg. Unknown levels fall
// back to info and unknown formats to text; config.Validate reports both.
func New(cfg config.LoggingConfig, w io.Writer) *log.Logger {
	if w == nil {
		w = io.Discard
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          cfg.Prefix,
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      time.TimeOnly,
		Formatter:       formatter(cfg.Format),
	})
}

// SetLevel changes the level of an existing logger, as a config reload does.
func SetLevel(logger *log.Logger, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	logger.SetLevel(lvl)
	return nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func formatter(format string) log.Formatter {
	switch format {
	case config.FormatJSON:
		return log.JSONFormatter
	case config.FormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
