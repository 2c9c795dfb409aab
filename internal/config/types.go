package config

import (
	"fmt"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Backend selects the key-value store behind the task list.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMySQL  Backend = "mysql"
)

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendFile, BackendSQLite, BackendMySQL:
		return b, nil
	case "sqlite3":
		return BackendSQLite, nil
	}
	return "", fmt.Errorf("invalid store backend %q (must be file, sqlite, or mysql)", s)
}

// Default values.
const (
	DefaultBackend   = BackendFile
	DefaultDataDir   = "~/.taskman"
	DefaultTheme     = "light"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	sqliteFileName = "taskman.db"
	logFileName    = "taskman.log"
)

// Config holds the full configuration for taskman.
type Config struct {
	// Storage
	StoreBackend Backend `toml:"store_backend"`
	DataDir      string  `toml:"data_dir"`
	SQLitePath   string  `toml:"sqlite_path"`
	MySQLDSN     string  `toml:"mysql_dsn"`
	SchemaFile   string  `toml:"schema_file"`

	// Theme used when none has been stored yet
	Theme string `toml:"theme"`

	// Logging configuration
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// Validate checks values that cannot be normalized.
func (c *Config) Validate() error {
	if _, err := ParseBackend(string(c.StoreBackend)); err != nil {
		return err
	}
	if c.StoreBackend == BackendMySQL && strings.TrimSpace(c.MySQLDSN) == "" {
		return fmt.Errorf("mysql_dsn is required for the mysql backend")
	}
	switch strings.ToLower(c.Theme) {
	case "light", "dark":
	default:
		return fmt.Errorf("invalid theme %q (must be light or dark)", c.Theme)
	}
	return nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"store_backend",
		"data_dir",
		"sqlite_path",
		"mysql_dsn",
		"schema_file",
		"theme",
		"log_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StoreBackend = DefaultBackend
	cfg.DataDir = DefaultDataDir
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
