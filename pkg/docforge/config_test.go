package docforge

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.LogLevel != "info" {
		t.Errorf("DefaultConfig LogLevel = %s, want info", config.LogLevel)
	}
	if config.Compression != CompressionDeflate {
		t.Errorf("DefaultConfig Compression = %s, want deflate", config.Compression)
	}
	if !config.AtomicWrites {
		t.Error("DefaultConfig AtomicWrites = false, want true")
	}
	if config.FileMode != 0o644 {
		t.Errorf("DefaultConfig FileMode = %o, want 644", config.FileMode)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid: %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name:    "log level",
			envVars: map[string]string{"DOCFORGE_LOG_LEVEL": "DEBUG"},
			check: func(t *testing.T, config *Config) {
				if config.LogLevel != "debug" {
					t.Errorf("LogLevel = %s, want debug", config.LogLevel)
				}
			},
		},
		{
			name:    "compression",
			envVars: map[string]string{"DOCFORGE_COMPRESSION": "store"},
			check: func(t *testing.T, config *Config) {
				if config.Compression != CompressionStore {
					t.Errorf("Compression = %s, want store", config.Compression)
				}
			},
		},
		{
			name:    "atomic writes off",
			envVars: map[string]string{"DOCFORGE_ATOMIC_WRITES": "no"},
			check: func(t *testing.T, config *Config) {
				if config.AtomicWrites {
					t.Error("AtomicWrites = true, want false")
				}
			},
		},
		{
			name:    "file mode",
			envVars: map[string]string{"DOCFORGE_FILE_MODE": "0600"},
			check: func(t *testing.T, config *Config) {
				if config.FileMode != 0o600 {
					t.Errorf("FileMode = %o, want 600", config.FileMode)
				}
			},
		},
		{
			name:    "unparseable file mode keeps default",
			envVars: map[string]string{"DOCFORGE_FILE_MODE": "rw-r--r--"},
			check: func(t *testing.T, config *Config) {
				if config.FileMode != 0o644 {
					t.Errorf("FileMode = %o, want 644", config.FileMode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "off level", mutate: func(c *Config) { c.LogLevel = "off" }},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "unknown compression", mutate: func(c *Config) { c.Compression = "zstd" }, wantErr: true},
		{name: "mode with type bits", mutate: func(c *Config) { c.FileMode = os.ModeDir | 0o755 }, wantErr: true},
		{name: "read-only mode", mutate: func(c *Config) { c.FileMode = 0o444 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	c := DefaultConfig()
	c.Compression = CompressionStore
	SetGlobalConfig(c)

	got := GetGlobalConfig()
	if got.Compression != CompressionStore {
		t.Errorf("Compression = %s, want store", got.Compression)
	}
	got.Compression = CompressionDeflate
	if GetGlobalConfig().Compression != CompressionStore {
		t.Error("GetGlobalConfig must return a copy")
	}
}
