// internal/config/logging.go
package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger from LOG_LEVEL and
// LOG_FORMAT.
func SetupLogging(cfg LogConfig) {
	logrus.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
