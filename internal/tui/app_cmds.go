package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"loandesk-cli/internal/api"
	"loandesk-cli/internal/reconcile"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/workflow"
)

// callTimeout bounds every remote call fired from the update loop.
const callTimeout = 30 * time.Second

const noticeDuration = 4 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), callTimeout)
}

func (m *appModel) loginCmd(name, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		user, err := client.Login(ctx, name, password)
		return loginDoneMsg{user: user, err: err}
	}
}

// fetchSectionCmd loads one section under the token issued for it. auto is
// true for interval-poll fetches, whose failures are logged but never shown.
func (m *appModel) fetchSectionCmd(section refresh.Section, token uint64, auto bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		apps, err := client.GetApplications(ctx, section.Status())
		return sectionLoadedMsg{section: section, token: token, auto: auto, apps: apps, err: err}
	}
}

func (m *appModel) fetchCountsCmd(gen int) tea.Cmd {
	client := m.client
	role := m.session.Role
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		counts, err := client.GetApplicationCounts(ctx)
		if err != nil {
			return countsLoadedMsg{gen: gen, err: err}
		}
		n, err := client.GetApplicationCountsForUser(ctx, role)
		if err != nil {
			return countsLoadedMsg{gen: gen, counts: counts, err: err}
		}
		return countsLoadedMsg{gen: gen, counts: counts, userCount: n}
	}
}

func (m *appModel) fetchAssignmentCmd(gen int) tea.Cmd {
	client := m.client
	role := m.session.Role
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		n, err := client.GetApplicationCountsForUser(ctx, role)
		return assignmentCountMsg{gen: gen, count: n, err: err}
	}
}

// openDetailCmd loads the record and resolves the actor context in one trip.
// The context is resolved fresh on every modal open.
func (m *appModel) openDetailCmd(seq int, appNumber string) tea.Cmd {
	client := m.client
	sess := m.session
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		detail, err := client.GetApplicationDetails(ctx, appNumber, sess.Name)
		if err != nil {
			return detailLoadedMsg{seq: seq, appNumber: appNumber, err: err}
		}
		actor := workflow.ResolveActorContext(ctx, client, sess.Name, sess.Role, sess.Level)
		return detailLoadedMsg{seq: seq, appNumber: appNumber, detail: detail, actor: actor}
	}
}

func (m *appModel) submitActionCmd(seq int, action workflow.Action, req api.SubmitRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.SubmitApplicationComment(ctx, req)
		return actionDoneMsg{seq: seq, action: action, appNumber: req.AppNumber, err: err}
	}
}

func (m *appModel) revertCmd(seq int, req api.RevertRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.RevertApplicationStage(ctx, req)
		return actionDoneMsg{seq: seq, action: workflow.ActionRevert, appNumber: req.AppNumber, err: err}
	}
}

func (m *appModel) loadUsersCmd(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		users, err := client.GetAllUsers(ctx)
		return usersLoadedMsg{seq: seq, users: users, err: err}
	}
}

func (m *appModel) addUserCmd(seq int, name, role, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.AddUser(ctx, name, role, password)
		return userMutatedMsg{seq: seq, action: "add", name: name, err: err}
	}
}

func (m *appModel) deleteUserCmd(seq int, name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := client.DeleteUser(ctx, name)
		return userMutatedMsg{seq: seq, action: "delete", name: name, err: err}
	}
}

func pollTick(gen int, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return pollTickMsg{gen: gen} })
}

func assignmentTick(gen int, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return assignmentTickMsg{gen: gen} })
}

func debounceTick(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg { return refreshDebounceMsg{seq: seq} })
}

func flashClearTick(section refresh.Section, seq int) tea.Cmd {
	return tea.Tick(reconcile.FlashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{section: section, seq: seq}
	})
}

func noticeExpireTick(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return noticeExpireMsg{seq: seq} })
}

// enterDashboard starts the section fetch, the badge counts, and both poll
// loops for the current generation.
func (m *appModel) enterDashboard() []tea.Cmd {
	token := m.guard.Begin(m.section)
	m.loading = true
	return []tea.Cmd{
		m.fetchSectionCmd(m.section, token, false),
		m.fetchCountsCmd(m.pollGen),
		pollTick(m.pollGen, m.poll.RefreshInterval),
		assignmentTick(m.pollGen, m.poll.AssignmentInterval),
	}
}

// setNotice replaces the notification line and schedules its expiry.
func (m *appModel) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	return noticeExpireTick(m.noticeSeq)
}
