// Package logger provides the leveled logging collaborator injected into
// the request handler. Entries go to stdout and, when configured, to a log
// file as structured JSON lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// LogFields carries structured context attached to a single log entry.
type LogFields map[string]interface{}

// Logger wraps a zerolog.Logger behind the small leveled interface the
// rest of the server depends on.
type Logger struct {
	zl      zerolog.Logger
	logFile *os.File
}

// New creates a Logger writing to stdout and, if logFilePath is non-empty,
// to that file as well. The log directory is created if missing. Failing
// to open the file is not fatal: logging degrades to stdout only and the
// failure is reported on the returned logger.
func New(logFilePath string) *Logger {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	writers := []io.Writer{console}

	var logFile *os.File
	var openErr error
	if logFilePath != "" {
		if dir := filepath.Dir(logFilePath); dir != "." {
			openErr = os.MkdirAll(dir, 0755)
		}
		if openErr == nil {
			logFile, openErr = os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		}
		if logFile != nil {
			writers = append(writers, logFile)
		}
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	l := &Logger{zl: zl, logFile: logFile}
	if openErr != nil {
		l.Error(fmt.Sprintf("Failed to create log file at %s", logFilePath), LogFields{
			"error": openErr.Error(),
		})
	}
	return l
}

// NewDiscard returns a logger that drops everything. Used in tests and as
// a fallback when no logger is injected.
func NewDiscard() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) write(ev *zerolog.Event, msg string, fields LogFields) {
	if len(fields) > 0 {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	ev.Msg(msg)
}

func (l *Logger) Debug(msg string, fields LogFields) { l.write(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields LogFields)  { l.write(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields LogFields)  { l.write(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields LogFields) { l.write(l.zl.Error(), msg, fields) }

// Close closes the log file, if one was opened.
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
}
