package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/server/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account",
		Long: `Create an account with an empty want-to-go list.

The password is read from the terminal without echo unless --password is
given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := promptPassword(cmd)
				if err != nil {
					return err
				}

				password = pw
			}

			return rootOpts.withAccounts(cmd, func(ctx context.Context, acc *services.Accounts) error {
				return runRegister(ctx, cmd, acc, args[0], password)
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")

	return cmd
}

func runRegister(ctx context.Context, cmd *cobra.Command, acc *services.Accounts, username, password string) error {
	err := acc.Register(ctx, username, password)
	switch {
	case err == nil:
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "User %q registered.\n", username)

		return err
	case errors.Is(err, common.ErrValidation):
		return errors.Error("username and password fields cannot be empty")
	case errors.Is(err, common.ErrAlreadyExists):
		return fmt.Errorf("username %q already exists", username)
	default:
		return err
	}
}

func promptPassword(cmd *cobra.Command) (string, error) {
	if _, err := fmt.Fprint(cmd.ErrOrStderr(), "Enter password: "); err != nil {
		return "", err
	}

	pw, err := readPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(pw), nil
}
