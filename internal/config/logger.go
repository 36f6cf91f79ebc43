package config

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds a stderr logger at c.LogLevel and installs it as the
// package default. An unknown level falls back to info with a warning.
func (c *Config) NewLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", c.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	log.SetDefault(logger)
	return logger
}
