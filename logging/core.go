package logging

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// appenderSet is the mutable list of outputs one logger writes to.
type appenderSet struct {
	mu        sync.RWMutex
	appenders []Appender
}

func (s *appenderSet) add(appender Appender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appenders = append(s.appenders, appender)
}

func (s *appenderSet) snapshot() []Appender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.appenders)
}

// appenderCore is the zapcore.Core behind every logger: it fans entries out to the logger's
// appenders as they are at write time.
type appenderCore struct {
	zapcore.LevelEnabler
	set    *appenderSet
	fields []zapcore.Field
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	return &appenderCore{
		LevelEnabler: c.LevelEnabler,
		set:          c.set,
		fields:       append(slices.Clip(c.fields), fields...),
	}
}

func (c *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if len(c.fields) > 0 {
		fields = append(slices.Clip(c.fields), fields...)
	}
	c.set.mu.RLock()
	defer c.set.mu.RUnlock()
	var errs error
	for _, appender := range c.set.appenders {
		errs = multierr.Append(errs, appender.Write(entry, fields))
	}
	return errs
}

func (c *appenderCore) Sync() error {
	c.set.mu.RLock()
	defer c.set.mu.RUnlock()
	var errs error
	for _, appender := range c.set.appenders {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}

type utcClock struct{}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}

func (utcClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
