// Package slogx holds slog attribute helpers shared by the library packages.
package slogx

import (
	"log/slog"
)

// Keys used across the module's log records.
const (
	KeyLoggerName = "logger"
	KeySessionID  = "session_id"
	KeyFamily     = "family"
)

// Error returns an "error" attribute. A nil error yields an empty attribute,
// which slog handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// LoggerName names the component emitting the record.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// SessionID tags a record with a stream session identity.
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// OrDefault returns l, or slog.Default() when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
