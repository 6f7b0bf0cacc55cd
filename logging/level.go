package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log level. Loggers and appenders share zap's scale.
type Level = zapcore.Level

// The levels a Logger can be set to.
const (
	DEBUG = zapcore.DebugLevel
	INFO  = zapcore.InfoLevel
	WARN  = zapcore.WarnLevel
	ERROR = zapcore.ErrorLevel
)

// GlobalLogLevel overrides every logger's own level while it is at debug.
var GlobalLogLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// LevelFromString parses debug, info, warn (or warning) and error, ignoring case.
func LevelFromString(s string) (Level, error) {
	lower := strings.ToLower(s)
	if lower == "warning" {
		return WARN, nil
	}
	var level Level
	if err := level.UnmarshalText([]byte(lower)); err != nil || lower == "" || level > ERROR {
		return DEBUG, errors.Errorf("unknown log level: %q", s)
	}
	return level, nil
}
