// Package config resolves informed-cli settings from defaults, an optional
// config file, and INFORMED_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds CLI configuration.
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Prompt PromptConfig `mapstructure:"prompt"`
	Schema SchemaConfig `mapstructure:"schema"`
}

// OutputConfig holds summary output settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// PromptConfig holds interactive session settings.
type PromptConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// SchemaConfig holds definition lookup settings.
type SchemaConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// INFORMED_; INFORMED_CONFIG points at an explicit config file, otherwise
// ~/.config/informed/config.yaml is consulted when present.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("output.format", "text")
	v.SetDefault("prompt.max_attempts", 3)
	v.SetDefault("schema.dir", ".")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("INFORMED_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "informed"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("INFORMED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ResolveSchemaPath locates a definition file: absolute paths and paths that
// exist relative to the working directory win, then the configured schema
// directory is consulted.
func (c Config) ResolveSchemaPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(c.Schema.Dir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
