package config

import (
	"sync"

	"go.viam.com/broadphase/logging"
)

// debugSources records where debug logging was asked for. Debug output stays on while either the
// command line or the current config file asks for it.
var debugSources struct {
	sync.Mutex
	logger      logging.Logger
	commandLine bool
	configFile  bool
}

// InitLoggingSettings sets the process log level from the command line debug flag and forgets any
// earlier config file setting.
func InitLoggingSettings(logger logging.Logger, cmdLineDebug bool) {
	debugSources.Lock()
	defer debugSources.Unlock()

	debugSources.logger = logger
	debugSources.commandLine = cmdLineDebug
	debugSources.configFile = false
	applyDebugSourcesLocked()
}

// UpdateFileConfigDebug records the debug setting of a freshly read config file.
func UpdateFileConfigDebug(fileDebug bool) {
	debugSources.Lock()
	defer debugSources.Unlock()

	debugSources.configFile = fileDebug
	applyDebugSourcesLocked()
}

func applyDebugSourcesLocked() {
	level := logging.INFO
	if debugSources.commandLine || debugSources.configFile {
		level = logging.DEBUG
	}
	if logging.GlobalLogLevel.Level() == level {
		return
	}
	logging.GlobalLogLevel.SetLevel(level)
	if debugSources.logger != nil {
		debugSources.logger.Infow("log level changed", "level", level)
	}
}
