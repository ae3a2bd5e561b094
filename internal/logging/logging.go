// Package logging builds the logrus logger shared by the CLI and the
// packages it drives. Logs never go to stdout, which carries reports.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mschirtzinger/shellbench/internal/ui"
)

// Options selects the level, format and destination of log output.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", ...); unknown names mean info
	Level string

	// File, when set, receives the logs through a size-rotated lumberjack writer
	File string

	// JSON switches from the text formatter to one JSON object per line
	JSON bool

	// NoColor disables colored level names even on a terminal
	NoColor bool

	// Output is the destination when File is empty (default os.Stderr)
	Output io.Writer
}

// Rotation limits for File.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a logger configured from opts.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
	}
	logger.SetOutput(out)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   opts.NoColor || !ui.ColorEnabled(out),
		})
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
