package config

import (
	"github.com/rshade/catalogview/internal/logging"
)

// ToLoggingConfig converts LoggingConfig to logging.Config.
//
// If File is set, Output becomes "file"; otherwise output goes to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
