// Package config loads chartctl settings from defaults, an optional YAML
// file, CHARTCTL_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/comalice/chartbuild/chartio"
	"github.com/comalice/chartbuild/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. CHARTCTL_LOGGER_LEVEL.
const EnvPrefix = "CHARTCTL"

// Config holds all chartctl configuration
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	Export ExportConfig `mapstructure:"export"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ExportConfig controls the export command.
type ExportConfig struct {
	Format string `mapstructure:"format"` // json, yaml or dot
	Output string `mapstructure:"output"` // file path; empty for stdout
}

// Logging converts to the logger constructor's input.
func (c LoggerConfig) Logging() logging.Config {
	return logging.Config{Level: c.Level, OutputPath: c.OutputPath, Format: c.Format}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":  "logger.level",
	"log-format": "logger.format",
	"log-output": "logger.output_path",
	"format":     "export.format",
	"output":     "export.output",
}

// LoadEnvFile exports the KEY=VALUE pairs in path into the process
// environment. Variables that are already set win. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configuration. configPath may be empty; flags may be nil.
// Precedence, highest first: set flags, environment, file, defaults.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")

	v.SetDefault("export.format", "json")
	v.SetDefault("export.output", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}
	if c.Export.Format != "dot" {
		if _, err := chartio.ParseFormat(c.Export.Format); err != nil {
			return fmt.Errorf("export.format: %w", err)
		}
	}
	return nil
}
