package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"loandesk-cli/internal/api"
	"loandesk-cli/internal/export"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/store"
	"loandesk-cli/internal/workflow"
)

func newAppsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Application commands",
	}
	cmd.AddCommand(newAppsListCmd(app))
	cmd.AddCommand(newAppsShowCmd(app))
	cmd.AddCommand(newAppsSubmitCmd(app))
	cmd.AddCommand(newAppsApproveCmd(app))
	cmd.AddCommand(newAppsRevertCmd(app))
	cmd.AddCommand(newAppsCountsCmd(app))
	return cmd
}

func parseSection(s string) (refresh.Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return refresh.SectionNew, nil
	case "pending":
		return refresh.SectionPending, nil
	case "approval", "pending-approval":
		return refresh.SectionApproval, nil
	case "approved":
		return refresh.SectionApproved, nil
	case "reverted":
		return refresh.SectionReverted, nil
	default:
		return "", unknownSectionError{section: s}
	}
}

func newAppsListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications in a status section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			section, err := parseSection(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			apps, err := d.client.GetApplications(ctx, section.Status())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": apps})
		},
	}

	cmd.Flags().StringVar(&status, "status", "new", "Status section (new|pending|approval|approved|reverted)")
	return cmd
}

func newAppsShowCmd(app *App) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "show <app-number>",
		Short: "Show one application's full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			detail, err := d.client.GetApplicationDetails(ctx, args[0], actorName(ctx, app, d))
			if err != nil {
				return writeErr(cmd, err)
			}

			if exportPath != "" {
				md := export.Markdown(*detail)
				if err := os.WriteFile(exportPath, []byte(md), 0o644); err != nil {
					return writeErr(cmd, fmt.Errorf("write export: %w", err))
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", exportPath)
			}
			return writeOut(cmd, app, map[string]any{"data": detail})
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Also write a print-friendly markdown document to this path")
	return cmd
}

// runAction shares the submit/approve flow: resolve the actor, check the
// action is allowed at the application's current stage, then submit the
// comment against that stage so the server can detect a concurrent move.
func runAction(ctx context.Context, cmd *cobra.Command, app *App, action workflow.Action, appNumber, field, comment string) error {
	d, err := loadDeps(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer d.close()

	sess, err := currentActor(ctx, app, d)
	if err != nil {
		return writeErr(cmd, err)
	}

	detail, err := d.client.GetApplicationDetails(ctx, appNumber, sess.Name)
	if err != nil {
		return writeErr(cmd, err)
	}

	actor := workflow.ResolveActorContext(ctx, d.client, sess.Name, sess.Role, sess.Level)
	plan := workflow.ComputePlan(*detail, actor, workflow.DefaultRegions())
	if !planAllows(plan, action) {
		return writeErr(cmd, fmt.Errorf("%s not available for %s as %s at status %s",
			strings.ToLower(string(action)), appNumber, actor.Role, workflow.NormalizeStatus(detail.Status)))
	}

	err = d.client.SubmitApplicationComment(ctx, api.SubmitRequest{
		AppNumber: appNumber,
		Action:    string(action),
		Stage:     detail.Stage,
		Field:     field,
		Comment:   comment,
		Actor:     sess.Name,
	})
	if errors.Is(err, api.ErrConflict) {
		return writeErr(cmd, fmt.Errorf("%s changed on the server since it was loaded; re-run to act on the fresh record", appNumber))
	}
	if err != nil {
		return writeErr(cmd, err)
	}

	_ = d.store.AppendAction(ctx, store.ActionRecord{
		Actor:     sess.Name,
		Action:    string(action),
		AppNumber: appNumber,
	})
	return writeOut(cmd, app, map[string]any{"data": map[string]string{
		"appNumber": appNumber,
		"action":    string(action),
	}})
}

func planAllows(plan workflow.Plan, action workflow.Action) bool {
	switch action {
	case workflow.ActionSubmit:
		return plan.ShowSubmit
	case workflow.ActionApprove:
		return plan.ShowApprove
	case workflow.ActionRevert:
		return plan.ShowRevert
	default:
		return false
	}
}

func newAppsSubmitCmd(app *App) *cobra.Command {
	var field, comment string

	cmd := &cobra.Command{
		Use:   "submit <app-number>",
		Short: "Submit a review comment, moving the application forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), cmd, app, workflow.ActionSubmit, args[0], field, comment)
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Comment field to write (e.g. creditOfficerComment)")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment text")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("comment")
	return cmd
}

func newAppsApproveCmd(app *App) *cobra.Command {
	var field, comment string

	cmd := &cobra.Command{
		Use:   "approve <app-number>",
		Short: "Approve the application at its current stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), cmd, app, workflow.ActionApprove, args[0], field, comment)
		},
	}

	cmd.Flags().StringVar(&field, "field", "approver1Comments", "Comment field to write")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment text")
	_ = cmd.MarkFlagRequired("comment")
	return cmd
}

func newAppsRevertCmd(app *App) *cobra.Command {
	var target, reason string

	cmd := &cobra.Command{
		Use:   "revert <app-number>",
		Short: "Rewind the application to an earlier stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !workflow.ValidRevertTarget(target) {
				return writeErr(cmd, invalidStageError{stage: target})
			}
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			sess, err := currentActor(ctx, app, d)
			if err != nil {
				return writeErr(cmd, err)
			}

			detail, err := d.client.GetApplicationDetails(ctx, args[0], sess.Name)
			if err != nil {
				return writeErr(cmd, err)
			}
			actor := workflow.ResolveActorContext(ctx, d.client, sess.Name, sess.Role, sess.Level)
			if plan := workflow.ComputePlan(*detail, actor, workflow.DefaultRegions()); !plan.ShowRevert {
				return writeErr(cmd, fmt.Errorf("revert not available for %s as %s", args[0], actor.Role))
			}

			err = d.client.RevertApplicationStage(ctx, api.RevertRequest{
				AppNumber:   args[0],
				TargetStage: target,
				Reason:      reason,
				Actor:       sess.Name,
			})
			if errors.Is(err, api.ErrConflict) {
				return writeErr(cmd, fmt.Errorf("%s changed on the server since it was loaded; re-run to act on the fresh record", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			_ = d.store.AppendAction(ctx, store.ActionRecord{
				Actor:     sess.Name,
				Action:    string(workflow.ActionRevert),
				AppNumber: args[0],
				Detail:    "to " + target,
			})
			return writeOut(cmd, app, map[string]any{"data": map[string]string{
				"appNumber":   args[0],
				"action":      string(workflow.ActionRevert),
				"targetStage": target,
			}})
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "Target stage (New|Assessment|Compliance|Ist Review|2nd Review)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the application is being sent back")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newAppsCountsCmd(app *App) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show per-section counts, or the count waiting on a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer d.close()

			if role != "" {
				n, err := d.client.GetApplicationCountsForUser(ctx, role)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"role": role, "count": n}})
			}

			counts, err := d.client.GetApplicationCounts(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": counts})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Count applications waiting on this role instead")
	return cmd
}
