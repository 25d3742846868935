package admin

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/server/services"
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <username> <destination>",
		Short: "Add a destination to a user's want-to-go list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withAccounts(cmd, func(ctx context.Context, acc *services.Accounts) error {
				return runAdd(ctx, cmd, acc, args[0], args[1])
			})
		},
	}
}

func runAdd(ctx context.Context, cmd *cobra.Command, acc *services.Accounts, username, destination string) error {
	_, err := acc.AddToList(ctx, username, destination)
	switch {
	case err == nil:
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s has been added to the Want-to-Go list of %s.\n", destination, username)

		return err
	case errors.Is(err, common.ErrAlreadyPresent):
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is already in the Want-to-Go list of %s.\n", destination, username)

		return err
	case errors.Is(err, common.ErrValidation):
		return errors.Error("destination cannot be empty")
	case errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("user %q not found", username)
	default:
		return err
	}
}
