package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loandesk-cli/internal/store"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Authenticate and cache the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			pw := password
			if pw == "-" {
				// Read from stdin so the password stays out of shell history
				// and process listings.
				r := bufio.NewReader(cmd.InOrStdin())
				line, err := r.ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, fmt.Errorf("read password from stdin: %w", err))
				}
				pw = strings.TrimRight(line, "\r\n")
			}

			user, err := d.client.Login(ctx, args[0], pw)
			if err != nil {
				return writeErr(cmd, err)
			}

			if err := d.store.SaveSession(ctx, store.Session{
				Name:  user.Name,
				Role:  user.Role,
				Level: user.Level,
			}); err != nil {
				return writeErr(cmd, err)
			}
			d.log.Info().Str("user", user.Name).Str("role", user.Role).Msg("logged in")

			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password, or - to read from stdin")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if err := d.store.ClearSession(ctx); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "logged out")
			return nil
		},
	}
}
