package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the command-line settings for logfan. The logging
// document itself is not read through viper: registry names in it are
// case-sensitive, so the dispatch package parses the file directly.
type Config struct {
	// Document is the path of the logging configuration document.
	Document string `mapstructure:"document"`
	// DefaultLogger receives records emitted against unknown loggers.
	DefaultLogger string `mapstructure:"default_logger"`
	// Diagnostics mirrors swallowed sink write failures to stderr.
	Diagnostics bool `mapstructure:"diagnostics"`
}

// Load loads settings from flags, environment variables and defaults.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Bind command line flags
	if err := bindFlags(cmd, v); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	// Read from environment variables
	v.SetEnvPrefix("LOGFAN")
	v.AutomaticEnv()

	// Unmarshal configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("document", "log_config.json")
	v.SetDefault("default_logger", "standard")
	v.SetDefault("diagnostics", false)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := map[string]string{
		"config":         "document",
		"default-logger": "default_logger",
		"diagnostics":    "diagnostics",
	}

	for flag, key := range flags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	return nil
}

func validate(cfg *Config) error {
	if cfg.Document == "" {
		return fmt.Errorf("document is required: specify via --config flag or LOGFAN_DOCUMENT environment variable")
	}
	if cfg.DefaultLogger == "" {
		return fmt.Errorf("default_logger cannot be empty")
	}
	return nil
}
