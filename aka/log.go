package aka

import "github.com/pion/logging"

// ensureLogger makes the injected logger optional: a nil LeveledLogger is
// replaced by a disabled one so that role constructors never need a nil
// check before every log call.
func ensureLogger(log logging.LeveledLogger) logging.LeveledLogger {
	if log != nil {
		return log
	}
	factory := logging.NewDefaultLoggerFactory()
	factory.DefaultLogLevel = logging.LogLevelDisabled
	return factory.NewLogger("aka")
}
