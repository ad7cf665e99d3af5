// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

var traceEnabled bool

// InitLogger installs the compact handler on stderr and sets the level from
// the XPCTL_LOG env variable. Unknown or empty values mean "error".
func InitLogger() {
	InitLoggerTo(os.Stderr, os.Getenv("XPCTL_LOG"))
}

// InitLoggerTo is InitLogger with an explicit sink and level name.
func InitLoggerTo(w io.Writer, level string) {
	level = strings.ToLower(level)
	traceEnabled = level == "trace"
	log.SetHandler(&CompactHandler{Writer: w})
	log.SetLevel(ParseLevel(level))
}

// ParseLevel maps an XPCTL_LOG value to an apex level. Trace is carried at
// debug level and distinguished by a message prefix.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// CompactHandler writes one line per entry: timestamp, level letter, message
// and any fields in key=value form.
type CompactHandler struct {
	Writer io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CompactHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	var fields strings.Builder
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&fields, " %s=%v", name, e.Fields.Get(name))
	}

	_, err := fmt.Fprintf(w, "%s %s %s%s\n", time.Now().Format("2006-01-02 15:04:05"), level, message, fields.String())
	return err
}

// Tracef logs below Debug. It is a no-op unless XPCTL_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

// WithField returns an entry carrying a single field.
func WithField(key string, value interface{}) *log.Entry {
	return log.WithField(key, value)
}
