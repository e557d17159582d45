package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"loandesk-cli/internal/api"
	"loandesk-cli/internal/model"
	"loandesk-cli/internal/reconcile"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/store"
	"loandesk-cli/internal/workflow"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.comment.SetWidth(min(72, max(20, m.width-8)))
		return m, nil

	case tea.FocusMsg:
		m.focused = true
		return m, nil

	case tea.BlurMsg:
		m.focused = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case startMsg:
		if n, err := m.store.AssignmentBaseline(context.Background(), m.session.Role); err == nil {
			m.baseline = n
		}
		return m, tea.Batch(m.enterDashboard()...)

	case loginDoneMsg:
		return m.onLoginDone(msg)

	case sectionLoadedMsg:
		return m.onSectionLoaded(msg)

	case countsLoadedMsg:
		if msg.gen != m.pollGen {
			return m, nil
		}
		if msg.counts != nil {
			m.counts = *msg.counts
		}
		if msg.err == nil {
			m.userCount = msg.userCount
		} else {
			m.log.Error().Err(msg.err).Msg("counts refresh failed")
		}
		return m, nil

	case pollTickMsg:
		if msg.gen != m.pollGen {
			// A tick scheduled before logout; the loop for this
			// generation is torn down.
			return m, nil
		}
		token := m.guard.Begin(m.section)
		return m, tea.Batch(
			m.fetchSectionCmd(m.section, token, true),
			m.fetchCountsCmd(m.pollGen),
			pollTick(m.pollGen, m.poll.RefreshInterval),
		)

	case assignmentTickMsg:
		if msg.gen != m.pollGen {
			return m, nil
		}
		cmds := []tea.Cmd{assignmentTick(m.pollGen, m.poll.AssignmentInterval)}
		if !m.focused && m.loggedIn {
			cmds = append(cmds, m.fetchAssignmentCmd(m.pollGen))
		}
		return m, tea.Batch(cmds...)

	case assignmentCountMsg:
		return m.onAssignmentCount(msg)

	case refreshDebounceMsg:
		if msg.seq != m.debounceSeq {
			// Coalesced: a later refresh request superseded this one.
			return m, nil
		}
		token := m.guard.Begin(m.section)
		m.loading = true
		return m, tea.Batch(
			m.fetchSectionCmd(m.section, token, false),
			m.fetchCountsCmd(m.pollGen),
		)

	case flashClearMsg:
		if tbl, ok := m.tables[msg.section]; ok {
			tbl.ClearFlash(msg.seq)
		}
		return m, nil

	case noticeExpireMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case detailLoadedMsg:
		return m.onDetailLoaded(msg)

	case actionDoneMsg:
		return m.onActionDone(msg)

	case usersLoadedMsg:
		if msg.seq != m.usersSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.setNotice("Could not load users: " + msg.err.Error())
		}
		m.users = msg.users
		if m.usersCursor >= len(m.users) {
			m.usersCursor = max(0, len(m.users)-1)
		}
		return m, nil

	case userMutatedMsg:
		if msg.seq != m.usersSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.setNotice("User " + msg.action + " failed: " + msg.err.Error())
		}
		m.modal = modalNone
		m.usersSeq++
		return m, tea.Batch(
			m.loadUsersCmd(m.usersSeq),
			m.setNotice("User "+msg.name+" "+msg.action+"ed"),
		)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m appModel) onLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.loginBusy = false
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.setNotice("Invalid name or password")
		}
		return m, m.setNotice("Login failed: " + msg.err.Error())
	}

	m.session = store.Session{Name: msg.user.Name, Role: msg.user.Role, Level: msg.user.Level}
	m.loggedIn = true
	m.view = viewDashboard
	m.passInput.SetValue("")

	ctx := context.Background()
	if err := m.store.SaveSession(ctx, m.session); err != nil {
		m.log.Error().Err(err).Msg("save session")
	}
	if n, err := m.store.AssignmentBaseline(ctx, m.session.Role); err == nil {
		m.baseline = n
	}

	return m, tea.Batch(m.enterDashboard()...)
}

func (m appModel) onSectionLoaded(msg sectionLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.guard.Admit(msg.section, msg.token) {
		// A newer fetch for this section is in flight or already landed.
		m.log.Debug().Str("section", string(msg.section)).Uint64("token", msg.token).Msg("stale section result discarded")
		return m, nil
	}
	if msg.section == m.section {
		m.loading = false
	}
	if msg.err != nil {
		m.log.Error().Str("section", string(msg.section)).Bool("auto", msg.auto).Err(msg.err).Msg("section refresh failed")
		if msg.auto {
			// Interval polls fail silently; only an actor-initiated
			// refresh earns a notice.
			return m, nil
		}
		return m, m.setNotice("Refresh failed: " + msg.err.Error())
	}

	tbl := m.tables[msg.section]
	res := tbl.Apply(msg.apps, nil)
	if m.cursor >= tbl.Len() {
		m.cursor = max(0, tbl.Len()-1)
	}
	if res.FlashSeq != 0 {
		return m, flashClearTick(msg.section, res.FlashSeq)
	}
	return m, nil
}

func (m appModel) onAssignmentCount(msg assignmentCountMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.pollGen {
		return m, nil
	}
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("assignment poll failed")
		return m, nil
	}

	var cmd tea.Cmd
	if msg.count > m.baseline {
		noun := "applications"
		if msg.count == 1 {
			noun = "application"
		}
		cmd = m.setNotice(fmt.Sprintf("%s %s for your action as %s", badgeLabel(msg.count), noun, m.session.Role))
	}
	if msg.count != m.baseline {
		m.baseline = msg.count
		if err := m.store.SetAssignmentBaseline(context.Background(), m.session.Role, msg.count); err != nil {
			m.log.Error().Err(err).Msg("persist assignment baseline")
		}
	}
	m.userCount = msg.count
	return m, cmd
}

func (m appModel) onDetailLoaded(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.detailSeq {
		return m, nil
	}
	m.detailLoading = false
	if msg.err != nil {
		return m, m.setNotice("Could not load " + msg.appNumber + ": " + msg.err.Error())
	}
	if msg.detail.IsDraft() {
		// Drafts belong in the application form, not the review modal.
		return m, m.setNotice(msg.appNumber + " is a draft; finish it in the application form")
	}

	m.detailApp = msg.appNumber
	m.detail = msg.detail
	m.actor = msg.actor
	m.plan = workflow.ComputePlan(*msg.detail, msg.actor, workflow.DefaultRegions())
	m.modal = modalDetail
	m.regionIdx = 0
	m.revertCursor = 0
	m.comment.SetValue("")
	if m.plan.ShowCommentArea {
		m.comment.Focus()
	} else {
		m.comment.Blur()
	}
	return m, nil
}

func (m appModel) onActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.actionSeq {
		return m, nil
	}
	m.actionBusy = false

	if errors.Is(msg.err, api.ErrConflict) {
		// The record moved on the server. Offer a reload; declining keeps
		// the cached detail exactly as loaded. The rejected action is not
		// replayed either way.
		m.conflictText = msg.appNumber + " changed on the server since you opened it."
		m.modal = modalConflict
		return m, nil
	}
	if msg.err != nil {
		// Transport or server failure: the modal stays open, nothing local
		// changes.
		return m, m.setNotice("Action failed: " + msg.err.Error())
	}

	if err := m.store.AppendAction(context.Background(), store.ActionRecord{
		Actor:     m.session.Name,
		Action:    string(msg.action),
		AppNumber: msg.appNumber,
	}); err != nil {
		m.log.Error().Err(err).Msg("append action log")
	}

	m.closeModal()
	token := m.guard.Begin(m.section)
	m.loading = true
	return m, tea.Batch(
		m.fetchSectionCmd(m.section, token, false),
		m.fetchCountsCmd(m.pollGen),
		m.setNotice(msg.appNumber+": "+strings.ToLower(string(msg.action))+" recorded"),
	)
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.detail = nil
	m.detailApp = ""
	m.comment.SetValue("")
	m.comment.Blur()
	m.conflictText = ""
}

func (m *appModel) logout() {
	_ = m.store.ClearSession(context.Background())
	m.pollGen++ // tears down every scheduled tick
	m.guard.Reset()
	m.loggedIn = false
	m.session = store.Session{}
	m.loggedOutReset()
}

func (m *appModel) loggedOutReset() {
	for _, s := range refresh.Sections() {
		m.tables[s] = &reconcile.Table{}
	}
	m.closeModal()
	m.view = viewLogin
	m.section = refresh.SectionNew
	m.cursor = 0
	m.counts = model.Counts{}
	m.userCount = 0
	m.baseline = 0
	m.users = nil
	m.nameInput.SetValue("")
	m.nameInput.Focus()
	m.passInput.SetValue("")
	m.passInput.Blur()
}

// visibleRegions returns the comment regions the plan shows, in declaration
// order.
func (m *appModel) visibleRegions() []workflow.Region {
	var out []workflow.Region
	for _, r := range workflow.DefaultRegions() {
		if m.plan.Regions[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func (m *appModel) currentRegion() (workflow.Region, bool) {
	regions := m.visibleRegions()
	if len(regions) == 0 {
		return workflow.Region{}, false
	}
	if m.regionIdx >= len(regions) {
		m.regionIdx = 0
	}
	return regions[m.regionIdx], true
}
