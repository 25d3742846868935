package admin

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/server/services"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Print the want-to-go list of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withAccounts(cmd, func(ctx context.Context, acc *services.Accounts) error {
				return runShow(ctx, cmd, acc, args[0])
			})
		},
	}
}

func runShow(ctx context.Context, cmd *cobra.Command, acc *services.Accounts, username string) error {
	u, err := acc.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("user %q not found", username)
		}

		return err
	}

	w := cmd.OutOrStdout()
	if _, err = fmt.Fprintf(w, "%s (%d destinations)\n", u.Username, len(u.WantToGoList)); err != nil {
		return err
	}

	for i, d := range u.WantToGoList {
		if _, err = fmt.Fprintf(w, "%3d. %s\n", i+1, d); err != nil {
			return err
		}
	}

	return nil
}
