package docforge

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Compression selects how parts are stored in the container
type Compression string

const (
	CompressionDeflate Compression = "deflate"
	CompressionStore   Compression = "store"
)

// Config contains the runtime options of the serializer and output sink
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// Compression is the zip method used for every part
	Compression Compression
	// AtomicWrites writes to a temporary file and renames it into place.
	// When false the destination is truncated and removed again on failure.
	AtomicWrites bool
	// FileMode is the permission of the written container
	FileMode os.FileMode
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		Compression:  CompressionDeflate,
		AtomicWrites: true,
		FileMode:     0o644,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
// Values that do not parse are ignored and the default is kept.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCFORGE_LOG_LEVEL
	if val := os.Getenv("DOCFORGE_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}

	// DOCFORGE_COMPRESSION
	if val := os.Getenv("DOCFORGE_COMPRESSION"); val != "" {
		config.Compression = Compression(strings.ToLower(strings.TrimSpace(val)))
	}

	// DOCFORGE_ATOMIC_WRITES
	if val := os.Getenv("DOCFORGE_ATOMIC_WRITES"); val != "" {
		config.AtomicWrites = parseBool(val)
	}

	// DOCFORGE_FILE_MODE (octal, e.g. 0600)
	if val := os.Getenv("DOCFORGE_FILE_MODE"); val != "" {
		if mode, err := strconv.ParseUint(strings.TrimSpace(val), 8, 32); err == nil {
			config.FileMode = os.FileMode(mode)
		}
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	switch c.Compression {
	case CompressionDeflate, CompressionStore:
	default:
		return fmt.Errorf("invalid compression %q: expected deflate or store", c.Compression)
	}

	if c.FileMode&^os.ModePerm != 0 {
		return fmt.Errorf("invalid file mode %o: only permission bits are allowed", c.FileMode)
	}
	if c.FileMode&0o200 == 0 {
		return fmt.Errorf("invalid file mode %o: owner must be able to write", c.FileMode)
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}

// resolveConfig returns cfg, or the global configuration when cfg is nil
func resolveConfig(cfg *Config) *Config {
	if cfg == nil {
		return GetGlobalConfig()
	}
	return cfg
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
