package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"loandesk-cli/internal/model"
	"loandesk-cli/internal/reconcile"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/workflow"
)

func (m appModel) View() string {
	var body string
	switch {
	case m.modal == modalDetail || m.modal == modalRevertPick || m.modal == modalConflict:
		body = m.viewModal()
	case m.view == viewLogin:
		body = m.viewLogin()
	case m.view == viewUsers:
		body = m.viewUsers()
	default:
		body = m.viewDashboard()
	}

	if m.notice != "" {
		body += "\n" + styleNotice.Render(m.notice)
	}
	return body
}

func (m appModel) viewLogin() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("LoanDesk") + "\n\n")
	b.WriteString("Sign in to the loan workflow\n\n")
	b.WriteString(m.nameInput.View() + "\n")
	b.WriteString(m.passInput.View() + "\n\n")
	if m.loginBusy {
		b.WriteString(m.spin.View() + " signing in...\n")
	} else {
		b.WriteString(styleMuted.Render("enter: sign in · tab: next field · esc: quit") + "\n")
	}
	return b.String()
}

func (m appModel) viewDashboard() string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %s",
		styleTitle.Render("LoanDesk"),
		styleMuted.Render(m.session.Name+" ("+m.session.Role+")"))
	if m.userCount > 0 {
		header += "  " + styleNotice.Render("["+badgeLabel(m.userCount)+" waiting]")
	}
	b.WriteString(header + "\n\n")

	b.WriteString(m.viewTabs() + "\n\n")
	b.WriteString(m.viewTable() + "\n")

	hints := "enter: review · tab/←→: section · r: refresh · j/k: move · L: logout · q: quit"
	if m.isAdminSession() {
		hints += " · u: users"
	}
	b.WriteString("\n" + styleMuted.Render(hints))
	return b.String()
}

func (m appModel) viewTabs() string {
	counts := map[refresh.Section]int{
		refresh.SectionNew:      m.counts.New,
		refresh.SectionPending:  m.counts.Pending,
		refresh.SectionApproval: m.counts.PendingApprovals,
		refresh.SectionApproved: m.counts.Approved,
	}

	parts := make([]string, 0, len(refresh.Sections()))
	for _, s := range refresh.Sections() {
		label := s.Title()
		if n, ok := counts[s]; ok && n > 0 {
			label += " (" + badgeLabel(n) + ")"
		}
		if s == m.section {
			parts = append(parts, styleTabActive.Render(label))
		} else {
			parts = append(parts, styleTab.Render(label))
		}
	}
	line := strings.Join(parts, "  ")
	if m.loading {
		line += "  " + m.spin.View()
	}
	return line
}

type column struct {
	title string
	width int
	right bool
}

var tableColumns = []column{
	{title: "App #", width: 12},
	{title: "Applicant", width: 24},
	{title: "Amount", width: 14, right: true},
	{title: "Date", width: 12},
	{title: "Action By", width: 16},
}

func cell(s string, c column) string {
	s = ansi.Truncate(s, c.width, "…")
	pad := c.width - ansi.StringWidth(s)
	if pad < 0 {
		pad = 0
	}
	if c.right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}

func (m appModel) viewTable() string {
	var b strings.Builder

	head := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		head[i] = cell(c.title, c)
	}
	b.WriteString(styleMuted.Render(strings.Join(head, "  ")) + "\n")

	tbl := m.table()
	if tbl.Len() == 0 {
		b.WriteString(styleMuted.Render("No applications in " + m.section.Title()))
		return b.String()
	}

	for i, row := range tbl.Rows {
		line := strings.Join([]string{
			cell(row.Number, tableColumns[0]),
			cell(row.Applicant, tableColumns[1]),
			cell(row.Amount, tableColumns[2]),
			cell(row.Date, tableColumns[3]),
			cell(row.ActionBy, tableColumns[4]),
		}, "  ")

		switch {
		case i == m.cursor:
			line = styleSelectedRow.Render(line)
		case row.Flash:
			line = styleFlashRow.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalRevertPick:
		return m.renderModal(m.viewRevertPick())
	case modalConflict:
		return m.renderModal(m.viewConflict())
	default:
		return m.renderModal(m.viewDetail())
	}
}

func (m appModel) renderModal(content string) string {
	box := styleModal.Render(content)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m appModel) viewDetail() string {
	d := m.detail
	if d == nil {
		return m.spin.View() + " loading..."
	}

	status := workflow.NormalizeStatus(d.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", styleTitle.Render(d.AppNumber), statusStyle(status).Render(string(status)))
	fmt.Fprintf(&b, "%s\n\n", styleMuted.Render("Stage: "+reconcile.FormatText(d.Stage)))

	fmt.Fprintf(&b, "Applicant  %s\n", reconcile.FormatText(d.ApplicantName))
	fmt.Fprintf(&b, "Amount     %s\n", reconcile.FormatAmount(d.Amount))
	fmt.Fprintf(&b, "Date       %s\n", reconcile.FormatDate(d.Date))
	if d.Purpose != "" {
		fmt.Fprintf(&b, "Purpose    %s\n", d.Purpose)
	}
	b.WriteString("\n")

	regions := m.visibleRegions()
	if len(regions) > 0 {
		b.WriteString(styleTitle.Render("Comments") + "\n")
		for i, r := range regions {
			marker := "  "
			if i == m.regionIdx {
				marker = "> "
			}
			fmt.Fprintf(&b, "%s%s: %s\n", marker, r.Label, reconcile.FormatText(commentFor(d.Comments, r.Field)))
		}
		b.WriteString("\n")
	}

	if m.plan.ShowSignatures {
		b.WriteString(styleTitle.Render("Signatures") + "\n")
		fmt.Fprintf(&b, "  Credit Officer: %s\n", reconcile.FormatText(d.Signatures.CreditOfficer))
		fmt.Fprintf(&b, "  Head of Credit: %s\n", reconcile.FormatText(d.Signatures.HeadOfCredit))
		fmt.Fprintf(&b, "  Branch Manager: %s\n\n", reconcile.FormatText(d.Signatures.BranchManager))
	}

	if len(d.Documents) > 0 {
		b.WriteString(styleTitle.Render("Documents") + "\n")
		for name, url := range d.Documents {
			state := "not uploaded"
			if url != "" {
				state = "uploaded"
			}
			fmt.Fprintf(&b, "  %s: %s\n", name, state)
		}
		b.WriteString("\n")
	}

	if m.plan.ShowCommentArea {
		b.WriteString(m.comment.View() + "\n\n")
	}

	if m.actionBusy {
		b.WriteString(m.spin.View() + " sending...\n")
	} else {
		b.WriteString(styleMuted.Render(m.detailHints()))
	}
	return b.String()
}

func (m appModel) detailHints() string {
	hints := []string{}
	if m.plan.ShowSubmit {
		hints = append(hints, "ctrl+s: submit")
	}
	if m.plan.ShowApprove {
		hints = append(hints, "ctrl+a: approve")
	}
	if m.plan.ShowRevert {
		hints = append(hints, "ctrl+r: revert")
	}
	if len(m.visibleRegions()) > 1 {
		hints = append(hints, "tab: field")
	}
	hints = append(hints, "esc: close")
	return strings.Join(hints, " · ")
}

func commentFor(c model.CommentSet, field string) string {
	switch field {
	case "creditOfficerComment":
		return c.CreditOfficer
	case "amlroComments":
		return c.AMLRO
	case "headOfCredit":
		return c.HeadOfCredit
	case "branchManager":
		return c.BranchManager
	case "approver1Comments":
		return c.Approver1
	case "approver2Comments":
		return c.Approver2
	default:
		return ""
	}
}

func (m appModel) viewRevertPick() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Revert "+m.detailApp+" to stage") + "\n\n")
	for i, stage := range model.RevertTargets() {
		marker := "  "
		if i == m.revertCursor {
			marker = "> "
		}
		b.WriteString(marker + string(stage) + "\n")
	}
	b.WriteString("\n" + styleMuted.Render("enter: revert · esc: back"))
	return b.String()
}

func (m appModel) viewConflict() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Application changed") + "\n\n")
	b.WriteString(m.conflictText + "\n")
	b.WriteString("Reload the fresh record before acting?\n\n")
	b.WriteString(styleMuted.Render("y: reload · n: keep viewing the loaded copy"))
	return b.String()
}

func (m appModel) viewUsers() string {
	if m.modal == modalAddUser {
		return m.renderModal(m.viewAddUser())
	}
	if m.modal == modalConfirmDeleteUser {
		name := ""
		if m.usersCursor < len(m.users) {
			name = m.users[m.usersCursor].Name
		}
		return m.renderModal(styleTitle.Render("Delete user "+name+"?") + "\n\n" +
			styleMuted.Render("y: delete · n: cancel"))
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Users") + "\n\n")
	fmt.Fprintf(&b, "%s  %s  %s\n",
		styleMuted.Render(cell("Name", column{width: 20})),
		styleMuted.Render(cell("Role", column{width: 24})),
		styleMuted.Render("Level"))
	for i, u := range m.users {
		line := fmt.Sprintf("%s  %s  %d",
			cell(u.Name, column{width: 20}),
			cell(u.Role, column{width: 24}),
			u.Level)
		if i == m.usersCursor {
			line = styleSelectedRow.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + styleTitle.Render("Access levels") + "\n")
	for _, r := range model.Roles() {
		fmt.Fprintf(&b, "  %s %s\n",
			cell(string(r), column{width: 24}),
			styleMuted.Render(accessSummary(r)))
	}

	b.WriteString("\n" + styleMuted.Render("a: add · d: delete · r: reload · esc: back"))
	return b.String()
}

// accessSummary describes what each role can act on, matching the button
// policy.
func accessSummary(r model.Role) string {
	switch r {
	case model.RoleAdmin:
		return "level 5 · full access to every stage and status"
	case model.RoleHeadOfCredit:
		return "level 2 · submit at PENDING"
	case model.RoleCreditOfficer:
		return "level 1 · submit at NEW"
	case model.RoleAMLRO:
		return "level 2 · submit at PENDING"
	case model.RoleBranchManager:
		return "level 3 · submit, approve and revert at PENDING"
	case model.RoleApprover:
		return "level 4 · approve and revert at PENDING_APPROVAL"
	default:
		return ""
	}
}

func (m appModel) viewAddUser() string {
	roles := model.Roles()
	var b strings.Builder
	b.WriteString(styleTitle.Render("Add user") + "\n\n")
	b.WriteString(m.userName.View() + "\n")

	roleLine := "Role: " + string(roles[m.userRoleIdx])
	if m.userFieldIdx == 1 {
		roleLine = "> " + roleLine + "  (←/→)"
	} else {
		roleLine = "  " + roleLine
	}
	b.WriteString(roleLine + "\n")
	b.WriteString(m.userPass.View() + "\n\n")
	b.WriteString(styleMuted.Render("enter: create · tab: next field · esc: cancel"))
	return b.String()
}
