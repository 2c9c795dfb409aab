package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/export"
	"github.com/nibzard/taskman-go/internal/task"
)

// exportCommand writes the task list as json, csv, or pdf.
func exportCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatFlag := fs.String("format", "", "json, csv, or pdf")
	output := fs.String("o", "", "Output file (default stdout)")
	statusFilter := fs.String("status", "", "Export only tasks with this status")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}

	format := export.FormatJSON
	switch {
	case *formatFlag != "":
		if format, err = export.ParseFormat(*formatFlag); err != nil {
			return err
		}
	case *output != "":
		if f, ok := export.FormatForPath(*output); ok {
			format = f
		}
	}

	return withApp(ctx, cfg, func(a *app) error {
		tasks := a.repo.Tasks()
		if *statusFilter != "" {
			s, err := task.ParseStatus(*statusFilter)
			if err != nil {
				return err
			}
			if tasks, err = a.repo.FilterByStatus(ctx, s); err != nil {
				return err
			}
		}

		data, err := export.Bytes(format, tasks)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		if *output == "" {
			_, err = stdout.Write(data)
			return err
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *output, err)
		}
		a.logger.Info("Exported tasks", "format", format, "count", len(tasks), "path", *output)
		fmt.Fprintf(stderr, "Exported %d tasks to %s\n", len(tasks), *output)
		return nil
	})
}
