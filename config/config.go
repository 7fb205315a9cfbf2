// Package config loads the host configuration a mantisDB instance
// starts from: listen address, data directory, and the registry
// identifiers selecting which compression/checksum/storage-provider
// Customizable to construct. It is deliberately separate from the
// option-string engine in pkg/options: this file answers "where do
// files live and what do we listen on", then hands off to
// options.Configurable for everything about how a subsystem itself
// behaves.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level host configuration, loaded from YAML with
// environment variable overrides in the teacher's own
// config/config.go style.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"MANTIS_HOST"`
	Port int    `yaml:"port" env:"MANTIS_PORT"`
}

// DatabaseConfig names the data directory and the values for the
// storage_provider, compression, and checksum Customizable options, in
// the "id=X;k=v;..." form a Customizable-tagged option accepts: e.g.
// Compression might be "id=zstd;level=6".
type DatabaseConfig struct {
	DataDir         string `yaml:"data_dir" env:"MANTIS_DATA_DIR"`
	StorageProvider string `yaml:"storage_provider" env:"MANTIS_STORAGE_PROVIDER"`
	Compression     string `yaml:"compression" env:"MANTIS_COMPRESSION"`
	Checksum        string `yaml:"checksum" env:"MANTIS_CHECKSUM"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"MANTIS_LOG_LEVEL"`
}

// Default returns the baseline Config a fresh instance starts from.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 7070},
		Database: DatabaseConfig{
			DataDir:         "./data",
			StorageProvider: "id=pure-go",
			Compression:     "id=zstd;level=3",
			Checksum:        "id=crc32c",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads and parses a YAML config file, applying Default for any
// field the file and environment leave unset.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// applyEnv overrides fields with MANTIS_* environment variables when
// set, matching the teacher's LoadFromEnv precedence (env wins over
// file).
func (c *Config) applyEnv() {
	if v := os.Getenv("MANTIS_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("MANTIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("MANTIS_DATA_DIR"); v != "" {
		c.Database.DataDir = v
	}
	if v := os.Getenv("MANTIS_STORAGE_PROVIDER"); v != "" {
		c.Database.StorageProvider = v
	}
	if v := os.Getenv("MANTIS_COMPRESSION"); v != "" {
		c.Database.Compression = v
	}
	if v := os.Getenv("MANTIS_CHECKSUM"); v != "" {
		c.Database.Checksum = v
	}
	if v := os.Getenv("MANTIS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the fields config.go owns directly; the
// Customizable option strings are validated when they're actually
// parsed by the engine, not here.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.DataDir == "" {
		return fmt.Errorf("database.data_dir must not be empty")
	}
	return nil
}
