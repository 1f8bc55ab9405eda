// Package config loads the generator settings from .binstruct.yaml and
// BINSTRUCT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/spf13/viper"

	"github.com/alexhholmes/binstruct/internal/parser"
)

// Config represents the binstruct configuration
type Config struct {
	DefaultByteOrder string `mapstructure:"default_byte_order"`
	OutputSuffix     string `mapstructure:"output_suffix"`
	Header           string `mapstructure:"header"`
	LogLevel         string `mapstructure:"log_level"`

	// ExternalTypes are types with hand-written EncodeBinary and
	// DecodeBinary methods that annotated structures may nest.
	ExternalTypes []ExternalType `mapstructure:"external_types"`
}

// ExternalType names a type and its static size in bytes, or -1 when it
// delimits itself.
type ExternalType struct {
	Name string `mapstructure:"name"`
	Size int    `mapstructure:"size"`
}

// Load reads the configuration. An explicit path must exist; otherwise
// .binstruct.yaml is looked up in the working directory and defaults are
// used when it is absent.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("default_byte_order", "little")
	v.SetDefault("output_suffix", "_binstruct.go")
	v.SetDefault("header", "")
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".binstruct")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// BINSTRUCT_DEFAULT_BYTE_ORDER overrides default_byte_order
	v.SetEnvPrefix("binstruct")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ByteOrder returns the configured global default byte order.
func (c *Config) ByteOrder() parser.ByteOrder {
	order, err := parser.ParseByteOrder(c.DefaultByteOrder)
	if err != nil {
		return parser.LittleEndian
	}
	return order
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := parser.ParseByteOrder(cfg.DefaultByteOrder); err != nil {
		return fmt.Errorf("default_byte_order: %w", err)
	}
	if !strings.HasSuffix(cfg.OutputSuffix, ".go") {
		return fmt.Errorf("output_suffix must end in .go, got: %s", cfg.OutputSuffix)
	}
	if strings.ContainsAny(cfg.OutputSuffix, `/\`) {
		return fmt.Errorf("output_suffix must not contain a path separator, got: %s", cfg.OutputSuffix)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got: %s", cfg.LogLevel)
	}
	for _, ext := range cfg.ExternalTypes {
		if !validTypeName(ext.Name) {
			return fmt.Errorf("external_types: invalid type name %q", ext.Name)
		}
		if ext.Size < -1 {
			return fmt.Errorf("external_types: %s: size must be -1 or at least 0, got: %d", ext.Name, ext.Size)
		}
	}
	if cfg.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(cfg.Header, "\n"), "\n") {
			if !strings.HasPrefix(line, "//") {
				return fmt.Errorf("header must consist of // comment lines, got: %q", line)
			}
		}
	}
	return nil
}

// validTypeName accepts Name and pkg.Name.
func validTypeName(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !token.IsIdentifier(p) {
			return false
		}
	}
	return true
}
