package main

import (
	"context"

	"github.com/spf13/cobra"

	"gorest-users/cmd/gorest/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local REST API",
	Long: `Serve the user list over HTTP on HTTP_PORT.

Routes:
  GET    /health
  GET    /v1/users
  POST   /v1/users            {"name": "...", "email": "..."}
  POST   /v1/users/refresh
  DELETE /v1/users/:id

Intents answer 202 and run in the background; add ?wait=true to get the
resulting state instead.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	return withApp(cmd, app.ModeServer, func(ctx context.Context, a *app.App) error {
		// Serve owns shutdown and closes the app itself
		return a.Serve(ctx)
	})
}
