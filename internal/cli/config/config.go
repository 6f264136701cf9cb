package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config represents the nqcblocks configuration
type Config struct {
	// Catalogs are extra YAML catalog documents applied after the NQC catalog
	Catalogs []string     `mapstructure:"catalogs"`
	Locale   string       `mapstructure:"locale"`
	Log      LogConfig    `mapstructure:"log"`
	Output   OutputConfig `mapstructure:"output"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// OutputConfig represents CLI output configuration
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// Tag returns the configured locale as a language tag.
func (c *Config) Tag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Japanese
	}
	return tag
}

// Load loads the configuration from path, or when path is empty from the
// nearest nqcblocks.yaml in the working directory or its parents. No file
// at all yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("catalogs", []string{})
	v.SetDefault("locale", "ja")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("output.format", "table")
	v.SetDefault("output.no_color", false)

	if path == "" {
		if found, err := FindConfig(); err == nil {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	// NQCBLOCKS_LOG_LEVEL overrides log.level
	v.SetEnvPrefix("NQCBLOCKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	// Catalog paths are relative to the config file
	if used := v.ConfigFileUsed(); used != "" {
		dir := filepath.Dir(used)
		for i, p := range config.Catalogs {
			if !filepath.IsAbs(p) {
				config.Catalogs[i] = filepath.Join(dir, p)
			}
		}
	}

	return &config, nil
}

// FindConfig looks for nqcblocks.yaml in the working directory and its
// parents.
func FindConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"nqcblocks.yaml", "nqcblocks.yml"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no nqcblocks.yaml found")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("output.format must be 'table' or 'json', got: %s", cfg.Output.Format)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}

	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("locale must be a BCP 47 language tag, got: %s", cfg.Locale)
	}
	return nil
}
