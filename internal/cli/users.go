package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loandesk-cli/internal/model"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User management commands",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersAddCmd(app))
	cmd.AddCommand(newUsersDeleteCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workflow participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			users, err := d.client.GetAllUsers(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": users})
		},
	}
}

func newUsersAddCmd(app *App) *cobra.Command {
	var role, password string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a workflow participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !knownRole(role) {
				return writeErr(cmd, fmt.Errorf("unknown role: %s (want one of %s)", role, roleList()))
			}
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			// The access level derives from the role on the server side.
			if err := d.client.AddUser(ctx, args[0], role, password); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"name":  args[0],
				"role":  role,
				"level": model.LevelForRole(role),
			}})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role ("+roleList()+")")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a workflow participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if err := d.client.DeleteUser(ctx, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"deleted": args[0]}})
		},
	}
}

func knownRole(role string) bool {
	for _, r := range model.Roles() {
		if strings.EqualFold(role, string(r)) {
			return true
		}
	}
	return false
}

func roleList() string {
	names := make([]string, 0, len(model.Roles()))
	for _, r := range model.Roles() {
		names = append(names, string(r))
	}
	return strings.Join(names, "|")
}
