package config

import (
	"log/slog"

	"git.home.luguber.info/inful/docnav/internal/foundation/normalization"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NotFoundMode selects prev/next behavior for pages missing from the tree.
type NotFoundMode string

const (
	NotFoundNone  NotFoundMode = "none"
	NotFoundFirst NotFoundMode = "first"
)

var notFoundNormalizer = normalization.NewNormalizer(map[string]NotFoundMode{
	"none":  NotFoundNone,
	"first": NotFoundFirst,
}, NotFoundNone)

// Policy converts the mode to the registry policy.
func (m NotFoundMode) Policy() routes.NotFoundPolicy {
	if m == NotFoundFirst {
		return routes.NotFoundFirst
	}
	return routes.NotFoundNone
}
