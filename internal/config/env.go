package config

import "os"

// loadFromEnv overrides config from TASKMAN_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKMAN_STORE"); v != "" {
		cfg.StoreBackend = Backend(v)
		setEnv("store_backend")
	}
	if v := os.Getenv("TASKMAN_DATA_DIR"); v != "" {
		cfg.DataDir = v
		setEnv("data_dir")
	}
	if v := os.Getenv("TASKMAN_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
		setEnv("sqlite_path")
	}
	if v := os.Getenv("TASKMAN_MYSQL_DSN"); v != "" {
		cfg.MySQLDSN = v
		setEnv("mysql_dsn")
	}
	if v := os.Getenv("TASKMAN_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		setEnv("schema_file")
	}
	if v := os.Getenv("TASKMAN_THEME"); v != "" {
		cfg.Theme = v
		setEnv("theme")
	}

	// Logging configuration
	if v := os.Getenv("TASKMAN_LOG_FILE"); v != "" {
		cfg.LogFile = v
		setEnv("log_file")
	}
	if v := os.Getenv("TASKMAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TASKMAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TASKMAN_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TASKMAN_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}
