package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gorest-users/cmd/gorest/app"
	"gorest-users/internal/presentation/style"
)

var (
	flagName  string
	flagEmail string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Long: `Create a user with the given name and email.

Gender defaults to male and status to active. The new user is printed
together with the rest of the current list.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagName, "name", "", "display name (3-100 characters)")
	addCmd.Flags().StringVar(&flagEmail, "email", "", "email address")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("email")
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, app.ModeTerminal, func(ctx context.Context, a *app.App) error {
		defer a.Close()

		vm := a.Container.Users
		if err := vm.AddUser(ctx, flagName, flagEmail); err != nil {
			return err
		}
		vm.Wait()

		out := cmd.OutOrStdout()
		if err := printState(out, vm.State(), time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Created %s\n", style.SuccessPrefix, flagEmail)
		return nil
	})
}
