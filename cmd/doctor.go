package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/logging"
	"github.com/nibzard/taskman-go/internal/store"
	"github.com/nibzard/taskman-go/internal/task"
)

// doctorCommand checks configuration, storage, and the stored task list.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskman doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "taskman doctor")
	fmt.Fprintln(stdout, "==============")
	fmt.Fprintln(stdout)

	allOK := true

	// Config files
	fmt.Fprintln(stdout, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  ⚠️  No config file (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  ✅ %s\n", f)
	}
	fmt.Fprintf(stdout, "  Backend: %s (%s)\n", cfg.StoreBackend, cws.Sources["store_backend"])
	fmt.Fprintln(stdout)

	// Schema
	fmt.Fprintln(stdout, "Schema:")
	var schema *task.Schema
	var err error
	if cfg.SchemaFile == "" {
		schema, err = task.DefaultSchema()
	} else {
		schema, err = task.LoadSchema(cfg.SchemaFile)
	}
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(stdout, "  ✅ %s\n", schema.Source())
	}
	fmt.Fprintln(stdout)

	// Storage
	fmt.Fprintln(stdout, "Storage:")
	kv, label, err := openKV(cfg)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		defer kv.Close()
		fmt.Fprintf(stdout, "  ✅ %s\n", displayStoreLabel(cfg, label))

		var opts []store.Option
		if schema != nil {
			opts = append(opts, store.WithSchema(schema))
		}
		adapter := store.NewAdapter(kv, opts...)
		tasks, err := adapter.LoadStrict(ctx)
		if err != nil {
			fmt.Fprintln(stdout, "  ❌ Stored task list is unreadable (it will load as empty):")
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(stdout, "     - %s\n", line)
			}
			allOK = false
		} else {
			fmt.Fprintf(stdout, "  ✅ Task list valid (%d tasks)\n", len(tasks))
			if *verbose {
				writeStatusCounts(tasks)
			}
		}
		writeLastSaved(ctx, kv)
		fmt.Fprintf(stdout, "  Theme: %s\n", adapter.Theme(ctx))
	}
	fmt.Fprintln(stdout)

	// Log file
	fmt.Fprintf(stdout, "Log file: %s\n", cfg.LogFile)
	if _, err := os.Stat(filepath.Dir(cfg.LogFile)); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Directory not found (will be created)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintf(stdout, "  Level: %s, format: %s\n", logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	fmt.Fprintln(stdout)

	// Overall status
	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// updateTimer is implemented by backends that record write times.
type updateTimer interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

func writeLastSaved(ctx context.Context, kv store.KV) {
	ut, ok := kv.(updateTimer)
	if !ok {
		return
	}
	at, found, err := ut.UpdatedAt(ctx, store.TasksKey)
	switch {
	case err != nil:
		fmt.Fprintf(stdout, "  ⚠️  Last saved: unknown (%v)\n", err)
	case found:
		fmt.Fprintf(stdout, "  Last saved: %s\n", at.Local().Format(time.RFC3339))
	default:
		fmt.Fprintln(stdout, "  Last saved: never")
	}
}

func writeStatusCounts(tasks []task.Task) {
	counts := map[task.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	for _, s := range task.Statuses {
		fmt.Fprintf(stdout, "     %-12s %d\n", s+":", counts[s])
	}
}

// displayStoreLabel hides credentials in MySQL DSNs.
func displayStoreLabel(cfg *config.Config, label string) string {
	if cfg.StoreBackend != config.BackendMySQL {
		return label
	}
	return "mysql:" + maskDSN(cfg.MySQLDSN)
}

// maskDSN replaces the password in a MySQL DSN.
func maskDSN(dsn string) string {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "(unparseable DSN)"
	}
	if parsed.Passwd != "" {
		parsed.Passwd = "****"
	}
	return parsed.FormatDSN()
}

// configCommand prints the effective configuration and where each value came
// from, or an example config file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	if len(args) == 1 && args[0] == "example" {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	cfg := cws.Config
	values := map[string]string{
		"store_backend":  string(cfg.StoreBackend),
		"data_dir":       cfg.DataDir,
		"sqlite_path":    cfg.SQLitePath,
		"mysql_dsn":      cfg.MySQLDSN,
		"schema_file":    cfg.SchemaFile,
		"theme":          cfg.Theme,
		"log_file":       cfg.LogFile,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(cfg.LogCaller),
	}
	if cfg.MySQLDSN != "" {
		values["mysql_dsn"] = maskDSN(cfg.MySQLDSN)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(stdout, "%-15s = %-40q # %s\n", k, values[k], cws.Sources[k])
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "# read %s\n", f)
	}
	return nil
}
