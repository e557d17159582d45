package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"loandesk-cli/internal/api"
	"loandesk-cli/internal/model"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/workflow"
)

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.modal {
	case modalDetail:
		return m.detailKeys(msg)
	case modalRevertPick:
		return m.revertPickKeys(msg)
	case modalConflict:
		return m.conflictKeys(msg)
	case modalAddUser:
		return m.addUserKeys(msg)
	case modalConfirmDeleteUser:
		return m.confirmDeleteKeys(msg)
	}

	switch m.view {
	case viewLogin:
		return m.loginKeys(msg)
	case viewUsers:
		return m.usersKeys(msg)
	default:
		return m.dashboardKeys(msg)
	}
}

func (m appModel) loginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.nameInput.Focused() {
			m.nameInput.Blur()
			m.passInput.Focus()
		} else {
			m.passInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		pass := m.passInput.Value()
		if name == "" || pass == "" {
			return m, m.setNotice("Enter both name and password")
		}
		if m.loginBusy {
			return m, nil
		}
		m.loginBusy = true
		return m, tea.Batch(m.loginCmd(name, pass), m.spin.Tick)
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.nameInput.Focused() {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) dashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "left", "shift+tab":
		return m.switchSection(-1)
	case "right", "tab":
		return m.switchSection(1)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.table().Len()-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		tbl := m.table()
		if m.cursor >= tbl.Len() {
			return m, nil
		}
		row := tbl.Rows[m.cursor]
		m.detailSeq++
		m.detailLoading = true
		return m, tea.Batch(m.openDetailCmd(m.detailSeq, row.Key), m.spin.Tick)

	case "r":
		// Trailing-edge debounce: rapid presses collapse into one fetch.
		m.debounceSeq++
		return m, debounceTick(m.debounceSeq, m.poll.DebounceDelay)

	case "u":
		if !m.isAdminSession() {
			return m, m.setNotice("User management requires the Admin role")
		}
		m.view = viewUsers
		m.usersSeq++
		return m, m.loadUsersCmd(m.usersSeq)

	case "L":
		m.logout()
		return m, nil
	}
	return m, nil
}

func (m appModel) isAdminSession() bool {
	return m.session.Level >= model.AdminLevel ||
		strings.EqualFold(strings.TrimSpace(m.session.Role), string(model.RoleAdmin))
}

func (m appModel) switchSection(dir int) (tea.Model, tea.Cmd) {
	sections := refresh.Sections()
	idx := 0
	for i, s := range sections {
		if s == m.section {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(sections)) % len(sections)
	m.section = sections[idx]
	m.cursor = 0

	token := m.guard.Begin(m.section)
	m.loading = true
	return m, m.fetchSectionCmd(m.section, token, false)
}

func (m appModel) detailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "tab":
		if regions := m.visibleRegions(); len(regions) > 1 {
			m.regionIdx = (m.regionIdx + 1) % len(regions)
		}
		return m, nil

	case "ctrl+s":
		if m.plan.ShowSubmit {
			return m.startAction(workflow.ActionSubmit)
		}
		return m, nil

	case "ctrl+a":
		if m.plan.ShowApprove {
			return m.startAction(workflow.ActionApprove)
		}
		return m, nil

	case "ctrl+r":
		if m.plan.ShowRevert {
			m.modal = modalRevertPick
			m.revertCursor = 0
		}
		return m, nil
	}

	if m.plan.ShowCommentArea {
		var cmd tea.Cmd
		m.comment, cmd = m.comment.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startAction submits the comment under the stage the modal loaded, so a
// concurrent stage move surfaces as a conflict instead of a silent overwrite.
func (m appModel) startAction(action workflow.Action) (tea.Model, tea.Cmd) {
	if m.actionBusy || m.detail == nil {
		return m, nil
	}
	region, ok := m.currentRegion()
	if !ok {
		return m, m.setNotice("No comment field available for your role here")
	}
	comment := strings.TrimSpace(m.comment.Value())
	if comment == "" {
		return m, m.setNotice("Write a comment first")
	}

	m.actionBusy = true
	m.actionSeq++
	return m, tea.Batch(m.submitActionCmd(m.actionSeq, action, api.SubmitRequest{
		AppNumber: m.detailApp,
		Action:    string(action),
		Stage:     m.detail.Stage,
		Field:     region.Field,
		Comment:   comment,
		Actor:     m.session.Name,
	}), m.spin.Tick)
}

func (m appModel) revertPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	targets := model.RevertTargets()
	switch msg.String() {
	case "esc":
		m.modal = modalDetail
		return m, nil
	case "up", "k":
		if m.revertCursor > 0 {
			m.revertCursor--
		}
		return m, nil
	case "down", "j":
		if m.revertCursor < len(targets)-1 {
			m.revertCursor++
		}
		return m, nil
	case "enter":
		if m.actionBusy || m.detail == nil {
			return m, nil
		}
		m.actionBusy = true
		m.actionSeq++
		return m, tea.Batch(m.revertCmd(m.actionSeq, api.RevertRequest{
			AppNumber:   m.detailApp,
			TargetStage: string(targets[m.revertCursor]),
			Reason:      strings.TrimSpace(m.comment.Value()),
			Actor:       m.session.Name,
		}), m.spin.Tick)
	}
	return m, nil
}

func (m appModel) conflictKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		// Reload the record; the modal reopens on the fresh copy.
		m.modal = modalNone
		m.conflictText = ""
		m.detailSeq++
		m.detailLoading = true
		return m, tea.Batch(m.openDetailCmd(m.detailSeq, m.detailApp), m.spin.Tick)
	case "n", "esc":
		// Declined: the cached detail stays exactly as loaded.
		m.modal = modalDetail
		m.conflictText = ""
		return m, nil
	}
	return m, nil
}

func (m appModel) usersKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.view = viewDashboard
		return m, nil
	case "up", "k":
		if m.usersCursor > 0 {
			m.usersCursor--
		}
		return m, nil
	case "down", "j":
		if m.usersCursor < len(m.users)-1 {
			m.usersCursor++
		}
		return m, nil
	case "r":
		m.usersSeq++
		return m, m.loadUsersCmd(m.usersSeq)
	case "a":
		m.modal = modalAddUser
		m.userName.SetValue("")
		m.userPass.SetValue("")
		m.userRoleIdx = 0
		m.userFieldIdx = 0
		m.userName.Focus()
		m.userPass.Blur()
		return m, nil
	case "d":
		if len(m.users) > 0 {
			m.modal = modalConfirmDeleteUser
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) addUserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roles := model.Roles()
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil

	case "tab", "shift+tab":
		dir := 1
		if msg.String() == "shift+tab" {
			dir = -1
		}
		m.userFieldIdx = (m.userFieldIdx + dir + 3) % 3
		m.userName.Blur()
		m.userPass.Blur()
		switch m.userFieldIdx {
		case 0:
			m.userName.Focus()
		case 2:
			m.userPass.Focus()
		}
		return m, nil

	case "left", "right":
		if m.userFieldIdx == 1 {
			dir := 1
			if msg.String() == "left" {
				dir = -1
			}
			m.userRoleIdx = (m.userRoleIdx + dir + len(roles)) % len(roles)
			return m, nil
		}

	case "enter":
		name := strings.TrimSpace(m.userName.Value())
		pass := m.userPass.Value()
		if name == "" || pass == "" {
			return m, m.setNotice("Name and password are required")
		}
		m.usersSeq++
		return m, m.addUserCmd(m.usersSeq, name, string(roles[m.userRoleIdx]), pass)
	}

	var cmd tea.Cmd
	switch m.userFieldIdx {
	case 0:
		m.userName, cmd = m.userName.Update(msg)
	case 2:
		m.userPass, cmd = m.userPass.Update(msg)
	}
	return m, cmd
}

func (m appModel) confirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.usersCursor < len(m.users) {
			name := m.users[m.usersCursor].Name
			m.usersSeq++
			return m, m.deleteUserCmd(m.usersSeq, name)
		}
		m.modal = modalNone
		return m, nil
	case "n", "esc":
		m.modal = modalNone
		return m, nil
	}
	return m, nil
}
