// Package config loads sitegen configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all sitegen settings.
type Config struct {
	// Source is the documents root, read recursively for markdown files.
	Source string `yaml:"source"`
	// Output is the root the rendered site is written under.
	Output string       `yaml:"output"`
	Server ServerConfig `yaml:"server"`
}

// ServerConfig controls the dev/serve HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
	// MaxPortRetries bounds how many consecutive ports are tried when the
	// configured one is already bound.
	MaxPortRetries int `yaml:"max_port_retries"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Source: "./docs",
		Output: "./site",
		Server: ServerConfig{
			Port:           8080,
			MaxPortRetries: 20,
		},
	}
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist. Environment variables (optionally loaded from a .env file)
// override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Config file is optional; defaults plus env/flags suffice.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	loadEnvFile()
	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies SITEGEN_* environment overrides on top of file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SITEGEN_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("SITEGEN_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("SITEGEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func (c *Config) normalize() error {
	if c.Source == "" {
		return fmt.Errorf("source directory must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxPortRetries <= 0 {
		c.Server.MaxPortRetries = Default().Server.MaxPortRetries
	}
	return nil
}
