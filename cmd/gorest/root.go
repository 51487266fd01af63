package main

import (
	"context"

	"github.com/spf13/cobra"

	"gorest-users/cmd/gorest/app"
	"gorest-users/cmd/gorest/server"
)

var rootCmd = &cobra.Command{
	Use:   "gorest-users",
	Short: "List, create and delete GoREST users",
	Long: `gorest-users talks to the GoREST public API.

It shows the last page of users, creates users and deletes them, and
remembers when each user was first seen by this installation.

Examples:
  gorest-users list                                  # Print the last page of users
  gorest-users add --name "Jane Doe" --email j@x.io  # Create a user
  gorest-users delete 7                              # Delete user 7
  gorest-users tui                                   # Interactive screen
  gorest-users serve                                 # Local REST API`,
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run, prints help by default.
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(tuiCmd)
}

// withApp builds the application for one command and releases it afterwards.
// ctx is canceled on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, mode app.Mode, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctx, stop := server.WithSignal(ctx)
	defer stop()

	a, err := app.New(ctx, mode)
	if err != nil {
		return err
	}

	return fn(ctx, a)
}
