package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates the application logger. Output is JSON on stderr so log
// aggregation can pick it up without a parser config.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	SetLogLevel(log, level)
	return log
}

// SetLogLevel sets the log level, falling back to info on unknown values.
func SetLogLevel(log *logrus.Logger, level string) {
	switch level {
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}
