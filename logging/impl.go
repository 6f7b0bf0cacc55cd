package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl is a zap sugared logger over an appenderCore, plus the level and appender controls the
// Logger interface adds.
type impl struct {
	*zap.SugaredLogger

	name  string
	level zap.AtomicLevel
	inUTC bool
	set   *appenderSet
}

func newImpl(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	imp := &impl{
		name:  name,
		level: zap.NewAtomicLevelAt(level),
		inUTC: inUTC,
		set:   &appenderSet{appenders: appenders},
	}
	opts := []zap.Option{zap.AddCaller()}
	if inUTC {
		opts = append(opts, zap.WithClock(utcClock{}))
	}
	core := &appenderCore{LevelEnabler: zap.LevelEnablerFunc(imp.enabled), set: imp.set}
	imp.SugaredLogger = zap.New(core, opts...).Named(name).Sugar()
	return imp
}

func (imp *impl) enabled(level zapcore.Level) bool {
	return level >= imp.level.Level() || GlobalLogLevel.Enabled(zapcore.DebugLevel)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Level()
}

func (imp *impl) AddAppender(appender Appender) {
	imp.set.add(appender)
}

// Sublogger starts with a copy of the parent's level and appenders; later changes to either side
// are not shared.
func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return newImpl(name, imp.GetLevel(), imp.inUTC, imp.set.snapshot()...)
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	return imp.SugaredLogger
}
