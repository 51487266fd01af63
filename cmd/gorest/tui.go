package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gorest-users/cmd/gorest/app"
	"gorest-users/internal/presentation/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse, create and delete users interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	return withApp(cmd, app.ModeTerminal, func(ctx context.Context, a *app.App) error {
		defer a.Close()

		err := tui.Run(ctx, a.Container.Users)
		a.Container.Users.Wait()

		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
}
