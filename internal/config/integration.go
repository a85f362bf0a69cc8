package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfigInit flag
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized
var globalConfigErr error       //nolint:gochecknoglobals // Load error from the last initialization

// InitGlobalConfig loads the global configuration once. A config file that
// fails to load leaves defaults (with env overrides) in place; the error is
// available from GlobalConfigError.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	cfg, err := Load()
	if err != nil {
		cfg = New()
		cfg.ApplyEnv()
	}
	GlobalConfig = cfg
	globalConfigErr = err
	globalConfigInit = true
}

// SetGlobalConfig replaces the global configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = cfg
	globalConfigErr = nil
	globalConfigInit = true
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigErr = nil
	globalConfigInit = false
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GlobalConfigError returns the error from loading the config file, if any.
func GlobalConfigError() error {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfigErr
}

// GetOutputFormat returns format when non-empty, otherwise the configured default.
func GetOutputFormat(format string) string {
	if format != "" {
		return format
	}
	return GetGlobalConfig().Output.DefaultFormat
}

// EnsureConfigDir ensures the catalogview configuration directory exists.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// EnsureLogDir ensures the directory of the configured log file exists.
// It does nothing when no log file is configured.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// GetConfigDir returns the path to the catalogview configuration directory.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".catalogview"), nil
}
