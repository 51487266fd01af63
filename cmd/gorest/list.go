package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"gorest-users/cmd/gorest/app"
	"gorest-users/internal/presentation/format"
	"gorest-users/internal/presentation/style"
	"gorest-users/internal/presentation/viewmodel"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the last page of users",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, app.ModeTerminal, func(ctx context.Context, a *app.App) error {
		defer a.Close()

		vm := a.Container.Users
		vm.Refresh(ctx)
		vm.Wait()

		return printState(cmd.OutOrStdout(), vm.State(), time.Now())
	})
}

// errShown marks a failure already rendered on the output.
var errShown = errors.New("request failed")

// printState writes the user table, or the error line when the last intent failed.
func printState(w io.Writer, s viewmodel.State, now time.Time) error {
	if s.Error != "" {
		fmt.Fprintln(w, style.RenderError(s.Error))
		return errShown
	}

	if len(s.Users) == 0 {
		fmt.Fprintln(w, style.Dim.Render("No users."))
		return nil
	}

	fmt.Fprintln(w, style.Header.Render(fmt.Sprintf("%-8s %-28s %-32s %-8s %-8s %s",
		"ID", "NAME", "EMAIL", "GENDER", "STATUS", "CREATED")))
	for _, u := range s.Users {
		fmt.Fprintf(w, "%-8d %-28s %-32s %-8s %-8s %s\n",
			u.ID, u.Name, u.Email, u.Gender, u.Status,
			style.Dim.Render(format.RelativeTime(u.CreatedAt, now)))
	}
	return nil
}
