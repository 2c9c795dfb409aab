package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskman configuration file
# Values can be overridden by TASKMAN_* environment variables or CLI flags

# Store backend: file, sqlite, or mysql
store_backend = "file"

# Data directory (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.taskman"

# SQLite database (default: <data_dir>/taskman.db)
# sqlite_path = "~/.taskman/taskman.db"

# MySQL DSN, required when store_backend = "mysql"
# mysql_dsn = "user:pass@tcp(127.0.0.1:3306)/taskman"

# External JSON Schema for the stored task list (embedded schema otherwise)
# schema_file = "tasks.schema.json"

# Theme used until one is toggled and stored: light or dark
theme = "light"

# Logging (the TUI owns the terminal, so logs go to a file)
# log_file = "~/.taskman/taskman.log"
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
