package tui

import (
	"loandesk-cli/internal/model"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/workflow"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewUsers
)

type modalKind int

const (
	modalNone modalKind = iota
	modalDetail
	modalRevertPick
	modalConflict
	modalAddUser
	modalConfirmDeleteUser
)

// startMsg kicks off the dashboard when a cached session skips the login
// form.
type startMsg struct{}

// loginDoneMsg reports the outcome of a login attempt.
type loginDoneMsg struct {
	user *model.User
	err  error
}

// sectionLoadedMsg carries one section fetch. token ties it to the fetch that
// started it; the guard decides whether it is still current. auto marks a
// fetch started by the interval poll rather than the actor.
type sectionLoadedMsg struct {
	section refresh.Section
	token   uint64
	auto    bool
	apps    []model.ApplicationSummary
	err     error
}

// countsLoadedMsg carries the badge counts plus the per-user assignment count.
type countsLoadedMsg struct {
	gen       int
	counts    *model.Counts
	userCount int
	err       error
}

// assignmentCountMsg is the background (unfocused) assignment poll result.
type assignmentCountMsg struct {
	gen   int
	count int
	err   error
}

// detailLoadedMsg carries a full record plus the actor context resolved for
// this modal open. seq discards responses from superseded opens.
type detailLoadedMsg struct {
	seq       int
	appNumber string
	detail    *model.ApplicationDetail
	actor     model.ActorContext
	err       error
}

// actionDoneMsg reports a submit/approve/revert round trip.
type actionDoneMsg struct {
	seq       int
	action    workflow.Action
	appNumber string
	err       error
}

type pollTickMsg struct{ gen int }

type assignmentTickMsg struct{ gen int }

type refreshDebounceMsg struct{ seq int }

type flashClearMsg struct {
	section refresh.Section
	seq     int
}

type noticeExpireMsg struct{ seq int }

type usersLoadedMsg struct {
	seq   int
	users []model.User
	err   error
}

type userMutatedMsg struct {
	seq    int
	action string
	name   string
	err    error
}
