package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/logging"
)

// logCommand prints the log file, optionally following it.
func logCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman log", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.LogFile); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "No log file yet.")
		return nil
	}

	fmt.Fprintf(stderr, "Log: %s\n", cfg.LogFile)
	if *follow {
		fmt.Fprintln(stderr, "(Ctrl+C to stop)")
	}

	return logging.TailLog(ctx, stdout, cfg.LogFile, *n, *follow)
}
