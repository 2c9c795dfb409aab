package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/repo"
	"github.com/nibzard/taskman-go/internal/task"
	"github.com/nibzard/taskman-go/internal/ui"
	"github.com/nibzard/taskman-go/internal/utils"
)

// tuiCommand launches the terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return withApp(ctx, cfg, func(a *app) error {
		return ui.RunTUI(ctx, a.repo, a.adapter,
			ui.WithLogger(a.logger),
			ui.WithStoreLabel(a.storeLabel),
		)
	})
}

// lsCommand lists tasks in stored order. Filtering and -sort affect only the
// output; the stored list is never reordered.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Show only tasks with this status")
	sortBy := fs.String("sort", "", "Display order: deadline or status:<s>")
	verbose := fs.Bool("v", false, "Show ids and summaries")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	if len(positional) == 1 && *statusFilter == "" {
		*statusFilter = positional[0]
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
		tasks, err := orderForDisplay(tasks, *sortBy)
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			if *statusFilter == "" {
				fmt.Fprintln(stdout, "No tasks.")
			} else {
				fmt.Fprintln(stdout, "No matching tasks.")
			}
			return nil
		}
		for _, t := range tasks {
			printTask(t, a.repo.IndexOf(t.ID)+1, *verbose)
		}
		return nil
	})
}

// orderForDisplay applies an ls -sort spec to a copy of tasks.
func orderForDisplay(tasks []task.Task, spec string) ([]task.Task, error) {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "":
		return tasks, nil
	case spec == "deadline":
		return repo.SortedByDeadline(tasks), nil
	case strings.HasPrefix(spec, "status:"):
		s, err := task.ParseStatus(strings.TrimPrefix(spec, "status:"))
		if err != nil {
			return nil, err
		}
		return repo.PartitionByStatus(tasks, s), nil
	default:
		return nil, fmt.Errorf("invalid sort %q (expected deadline or status:<status>)", spec)
	}
}

// printTask prints one task with its 1-based stored position.
func printTask(t task.Task, pos int, verbose bool) {
	line := fmt.Sprintf("%3d. [%-11s] %s", pos, t.Status, t.Title)
	if t.HasDeadline() {
		line += "  (due " + t.Deadline.String() + ")"
	}
	if verbose {
		line += "  " + task.ShortID(t.ID)
	}
	fmt.Fprintln(stdout, line)
	if verbose && t.Summary != "" {
		fmt.Fprintf(stdout, "       %s\n", utils.Truncate(t.Summary, 72))
	}
}

// addCommand adds a task with status "Not done" and no deadline.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	summary := fs.String("summary", "", "Task summary")
	fs.StringVar(summary, "s", "", "Task summary (shorthand)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	title := strings.Join(positional, " ")

	return withApp(ctx, cfg, func(a *app) error {
		t, err := a.repo.Add(ctx, title, *summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %d. %s (%s)\n", a.repo.Len(), t.Title, task.ShortID(t.ID))
		return nil
	})
}

// editCommand replaces the fields given on the command line.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "New title")
	summary := fs.String("summary", "", "New summary")
	status := fs.String("status", "", "New status")
	deadline := fs.String("deadline", "", "New deadline (YYYY-MM-DD, empty clears)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("edit takes exactly one task reference")
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return fmt.Errorf("nothing to change (use -title, -summary, -status, or -deadline)")
	}

	return withApp(ctx, cfg, func(a *app) error {
		t, err := resolveRef(a.repo, positional[0])
		if err != nil {
			return err
		}
		f := t.Fields()
		if set["title"] {
			f.Title = *title
		}
		if set["summary"] {
			f.Summary = *summary
		}
		if set["status"] {
			if f.Status, err = task.ParseStatus(*status); err != nil {
				return err
			}
		}
		if set["deadline"] {
			if f.Deadline, err = task.ParseDate(strings.TrimSpace(*deadline)); err != nil {
				return err
			}
		}
		if err := a.repo.Update(ctx, t.ID, f); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated %d. %s\n", a.repo.IndexOf(t.ID)+1, f.Title)
		return nil
	})
}

// rmCommand deletes one or more tasks. References are resolved before any
// deletion so positions refer to the list as shown by ls.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman rm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("rm needs at least one task reference")
	}

	return withApp(ctx, cfg, func(a *app) error {
		var targets []task.Task
		seen := map[string]bool{}
		for _, ref := range positional {
			t, err := resolveRef(a.repo, ref)
			if err != nil {
				return err
			}
			if !seen[t.ID] {
				seen[t.ID] = true
				targets = append(targets, t)
			}
		}
		for _, t := range targets {
			if err := a.repo.Remove(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Removed %s\n", t.Title)
		}
		return nil
	})
}

// sortCommand reorders and persists the stored list.
func sortCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sort needs a key: status <status> or deadline")
	}
	return withApp(ctx, cfg, func(a *app) error {
		switch args[0] {
		case "deadline":
			if len(args) != 1 {
				return fmt.Errorf("unexpected arguments: %v", args[1:])
			}
			if err := a.repo.SortByDeadline(ctx); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Sorted by deadline.")
		case "status":
			if len(args) < 2 {
				return fmt.Errorf("sort status needs a status")
			}
			s, err := task.ParseStatus(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := a.repo.SortByStatus(ctx, s); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Prioritized %s.\n", s)
		default:
			return fmt.Errorf("unknown sort key %q (expected status or deadline)", args[0])
		}
		return nil
	})
}

// resolveRef finds a task by 1-based position or by a unique id prefix.
func resolveRef(r *repo.Repository, ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, fmt.Errorf("empty task reference")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		return r.At(n - 1)
	}

	var matches []task.Task
	for _, t := range r.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, &repo.IndexError{Index: -1, ID: ref, Len: r.Len()}
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("task reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}
