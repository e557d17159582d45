// Package export renders an application record as a print-friendly markdown
// document: the summary fields, comments grouped by stage, and the signature
// block once the application is approved.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"loandesk-cli/internal/model"
	"loandesk-cli/internal/reconcile"
	"loandesk-cli/internal/workflow"
)

// Markdown renders the full record as a markdown document.
func Markdown(d model.ApplicationDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Loan Application %s\n\n", reconcile.FormatText(d.AppNumber))

	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Applicant | %s |\n", reconcile.FormatText(d.ApplicantName))
	fmt.Fprintf(&b, "| Amount | %s |\n", reconcile.FormatAmount(d.Amount))
	fmt.Fprintf(&b, "| Status | %s |\n", workflow.NormalizeStatus(d.Status))
	fmt.Fprintf(&b, "| Stage | %s |\n", reconcile.FormatText(d.Stage))
	fmt.Fprintf(&b, "| Date | %s |\n", reconcile.FormatDate(d.Date))
	if d.Purpose != "" {
		fmt.Fprintf(&b, "| Purpose | %s |\n", d.Purpose)
	}
	if d.DurationMonths > 0 {
		fmt.Fprintf(&b, "| Duration | %d months |\n", d.DurationMonths)
	}
	if d.InterestRate > 0 {
		fmt.Fprintf(&b, "| Interest rate | %.2f%% |\n", d.InterestRate)
	}
	b.WriteString("\n")

	b.WriteString("## Comments\n\n")
	comments := []struct {
		label string
		text  string
	}{
		{"Credit Officer", d.Comments.CreditOfficer},
		{"AMLRO", d.Comments.AMLRO},
		{"Head of Credit", d.Comments.HeadOfCredit},
		{"Branch Manager", d.Comments.BranchManager},
		{"Approver 1", d.Comments.Approver1},
		{"Approver 2", d.Comments.Approver2},
	}
	wrote := false
	for _, c := range comments {
		if strings.TrimSpace(c.text) == "" {
			continue
		}
		wrote = true
		fmt.Fprintf(&b, "**%s**\n\n%s\n\n", c.label, strings.TrimSpace(c.text))
	}
	if !wrote {
		b.WriteString("_No comments recorded._\n\n")
	}

	if workflow.NormalizeStatus(d.Status) == model.StatusApproved {
		b.WriteString("## Signatures\n\n")
		fmt.Fprintf(&b, "- Credit Officer: %s\n", reconcile.FormatText(d.Signatures.CreditOfficer))
		fmt.Fprintf(&b, "- Head of Credit: %s\n", reconcile.FormatText(d.Signatures.HeadOfCredit))
		fmt.Fprintf(&b, "- Branch Manager: %s\n", reconcile.FormatText(d.Signatures.BranchManager))
		b.WriteString("\n")
	}

	if len(d.Documents) > 0 {
		b.WriteString("## Documents\n\n")
		for _, name := range sortedKeys(d.Documents) {
			state := "not uploaded"
			if d.Documents[name] != "" {
				state = "uploaded"
			}
			fmt.Fprintf(&b, "- %s: %s\n", name, state)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ANSI renders the markdown document for terminal display.
// A fixed style avoids the terminal capability queries auto-detection runs.
func ANSI(md string, width int) (string, error) {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
