package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/store"
)

// themeCommand prints the stored theme, or sets it.
func themeCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	return withApp(ctx, cfg, func(a *app) error {
		current := a.adapter.Theme(ctx)
		if len(args) == 0 {
			fmt.Fprintln(stdout, current)
			return nil
		}

		var next store.Theme
		if strings.EqualFold(args[0], "toggle") {
			next = current.Toggle()
		} else {
			t, err := store.ParseTheme(args[0])
			if err != nil {
				return err
			}
			next = t
		}
		if err := a.adapter.SetTheme(ctx, next); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Theme set to %s\n", next)
		return nil
	})
}
