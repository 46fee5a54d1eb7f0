// Package ports declares the interfaces the mixing pipeline depends on.
package ports

import (
	"fmt"
	"strings"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota // per-component detail: graph wiring, stream ends
	LevelInfo                  // orchestration progress
	LevelWarn                  // the run continues, e.g. an ignored output size
	LevelError                 // the run stops
	LevelQuiet                 // nothing is printed
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

// String returns the name accepted by ParseLogLevel.
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name, ignoring case. An empty name is
// LevelInfo and "warning" is accepted for LevelWarn.
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}
	for i, name := range levelNames {
		if s == name {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn, error or quiet)", s)
}

// Logger is implemented by the console and no-op loggers.
//
// msg is a translation key and a format string at once: implementations
// look it up in the l10n lexicon before applying args.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger whose lines are tagged with
	// component, such as "graph" or "driver".
	WithComponent(component string) Logger
}
