package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration surface. The retry delays and the
// health-history window sizes are policy constants in their owning
// packages, not configuration; only the endpoint and logging knobs live
// here.
type Config struct {
	// Server is the base URL of the constellation feed
	Server string `yaml:"server"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls log verbosity and output format
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`

	// Format is json or console
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Server: "http://localhost:8080",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config file over the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for usability
func (c Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.Server, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q must use http or https", c.Server)
	}
	if u.Host == "" {
		return fmt.Errorf("server url %q has no host", c.Server)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format %q must be json or console", c.Log.Format)
	}
	return nil
}
