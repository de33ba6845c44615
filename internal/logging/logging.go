// Package logging wraps charmbracelet/log with the helpers agentsync uses
// for diagnostics. Output goes to stderr so it never mixes with generated
// content or the MCP stdio stream.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const prefix = "agentsync"

type AppLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the process-wide logger, created on first use.
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = NewAppLogger()
	})
	return defaultLogger
}

func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

// NewAppLogger builds the process logger. DEBUG enables debug output with
// caller information; otherwise only warnings and errors reach stderr.
// AGENTSYNC_LOG_FORMAT=json switches to one JSON object per line.
func NewAppLogger() *AppLogger {
	al := NewWithWriter(os.Stderr, os.Getenv("DEBUG") != "")
	if strings.EqualFold(os.Getenv("AGENTSYNC_LOG_FORMAT"), "json") {
		al.logger.SetFormatter(log.JSONFormatter)
	}
	return al
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, debug bool) *AppLogger {
	opts := log.Options{Prefix: prefix}
	level := log.WarnLevel
	if debug {
		opts.ReportCaller = true
		opts.ReportTimestamp = true
		opts.TimeFormat = time.Kitchen
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, opts)
	logger.SetLevel(level)
	logger.Debug("Debug logging enabled")

	return &AppLogger{
		logger: logger,
		debug:  debug,
	}
}

// With returns a child logger that adds keyvals to every entry.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{
		logger: al.logger.With(keyvals...),
		debug:  al.debug,
	}
}

func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

func (al *AppLogger) DebugObject(name string, obj interface{}) {
	if al.debug {
		al.logger.Debug("Object dump", "name", name, "object", fmt.Sprintf("%+v", obj))
	}
}

func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", time.Since(start),
		)
	}
}

// LogStateTransition records an orchestrator moving between phases.
func (al *AppLogger) LogStateTransition(component, from, to string) {
	if al.debug {
		al.logger.Debug("State transition",
			"component", component,
			"from", from,
			"to", to,
		)
	}
}

// LogFileWrite records one output file. size is the payload length.
func (al *AppLogger) LogFileWrite(path string, size int, dryRun bool) {
	if !al.debug {
		return
	}
	msg := "Wrote file"
	if dryRun {
		msg = "Would write file"
	}
	al.logger.Debug(msg, "path", path, "bytes", size)
}

// LogMessage records a bubbletea message (debug only).
func (al *AppLogger) LogMessage(msg tea.Msg) {
	if !al.debug {
		return
	}
	al.logger.Debug("Message received",
		"type", fmt.Sprintf("%T", msg),
		"content", fmt.Sprintf("%+v", msg),
	)
}

// NewTestLogger creates a debug logger that writes to a buffer.
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
