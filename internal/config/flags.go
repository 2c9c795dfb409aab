package config

import "flag"

// flagNames maps CLI flag names to config field names.
var flagNames = map[string]string{
	"store":          "store_backend",
	"data-dir":       "data_dir",
	"sqlite-path":    "sqlite_path",
	"mysql-dsn":      "mysql_dsn",
	"schema":         "schema_file",
	"theme":          "theme",
	"log-file":       "log_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args. Flags that were
// set explicitly are recorded in sources when sources is non-nil.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskman", flag.ContinueOnError)
	}

	backend := string(cfg.StoreBackend)
	fs.StringVar(&backend, "store", backend, "Store backend: file, sqlite, or mysql")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database path")
	fs.StringVar(&cfg.MySQLDSN, "mysql-dsn", cfg.MySQLDSN, "MySQL DSN")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to an external task schema")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Initial theme: light or dark")

	// Logging flags
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller info in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.StoreBackend = Backend(backend)

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagNames[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
