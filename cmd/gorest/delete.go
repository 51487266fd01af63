package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gorest-users/cmd/gorest/app"
	"gorest-users/internal/presentation/style"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd, app.ModeTerminal, func(ctx context.Context, a *app.App) error {
		defer a.Close()

		vm := a.Container.Users
		vm.DeleteUser(ctx, id)
		vm.Wait()

		out := cmd.OutOrStdout()
		if s := vm.State(); s.Error != "" {
			fmt.Fprintln(out, style.RenderError(s.Error))
			return errShown
		}
		fmt.Fprintf(out, "%s Deleted user %d\n", style.SuccessPrefix, id)
		return nil
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
