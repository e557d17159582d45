// Package tui is the interactive terminal front end: login, the dashboard
// with its status sections, the review modal, and user management. All remote
// calls run as commands; their responses carry tokens or sequence numbers so
// a superseded response can never overwrite newer state.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"loandesk-cli/internal/api"
	"loandesk-cli/internal/config"
	"loandesk-cli/internal/model"
	"loandesk-cli/internal/reconcile"
	"loandesk-cli/internal/refresh"
	"loandesk-cli/internal/store"
	"loandesk-cli/internal/workflow"
)

// Client is the slice of the API the TUI needs. *api.Client satisfies it.
type Client interface {
	Login(ctx context.Context, name, password string) (*model.User, error)
	GetApplications(ctx context.Context, status model.Status) ([]model.ApplicationSummary, error)
	GetApplicationDetails(ctx context.Context, appNumber, actorName string) (*model.ApplicationDetail, error)
	GetApplicationCounts(ctx context.Context) (*model.Counts, error)
	GetApplicationCountsForUser(ctx context.Context, role string) (int, error)
	GetUserPermissions(ctx context.Context, actorName string) (*model.Permissions, error)
	SubmitApplicationComment(ctx context.Context, req api.SubmitRequest) error
	RevertApplicationStage(ctx context.Context, req api.RevertRequest) error
	GetAllUsers(ctx context.Context) ([]model.User, error)
	AddUser(ctx context.Context, name, role, password string) error
	DeleteUser(ctx context.Context, name string) error
}

// Options configures the TUI.
type Options struct {
	Client Client
	Store  *store.Store
	Log    zerolog.Logger
	Poll   config.PollConfig
}

type appModel struct {
	client Client
	store  *store.Store
	log    zerolog.Logger
	poll   config.PollConfig

	width  int
	height int

	view  view
	modal modalKind

	// login
	nameInput textinput.Model
	passInput textinput.Model
	loginBusy bool
	spin      spinner.Model

	session  store.Session
	loggedIn bool

	// dashboard
	section   refresh.Section
	guard     refresh.Guard
	tables    map[refresh.Section]*reconcile.Table
	cursor    int
	counts    model.Counts
	userCount int
	baseline  int

	loading bool // manual refresh in flight

	// pollGen invalidates every scheduled tick from before the last
	// login/logout transition.
	pollGen     int
	debounceSeq int
	focused     bool

	// review modal
	detailSeq     int
	detailLoading bool
	detailApp     string
	detail        *model.ApplicationDetail
	actor         model.ActorContext
	plan          workflow.Plan
	regionIdx     int
	comment       textarea.Model
	actionSeq     int
	actionBusy    bool
	revertCursor  int
	conflictText  string

	// users view
	users        []model.User
	usersSeq     int
	usersCursor  int
	userName     textinput.Model
	userPass     textinput.Model
	userRoleIdx  int
	userFieldIdx int

	notice    string
	noticeSeq int
}

func newAppModel(opts Options) appModel {
	m := appModel{
		client:  opts.Client,
		store:   opts.Store,
		log:     opts.Log,
		poll:    normalizePoll(opts.Poll),
		view:    viewLogin,
		section: refresh.SectionNew,
		tables:  map[refresh.Section]*reconcile.Table{},
		focused: true,
	}
	for _, s := range refresh.Sections() {
		m.tables[s] = &reconcile.Table{}
	}

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Name"
	m.nameInput.Focus()
	m.passInput = textinput.New()
	m.passInput.Placeholder = "Password"
	m.passInput.EchoMode = textinput.EchoPassword

	m.comment = textarea.New()
	m.comment.Placeholder = "Comment"

	m.userName = textinput.New()
	m.userName.Placeholder = "Name"
	m.userPass = textinput.New()
	m.userPass.Placeholder = "Password"
	m.userPass.EchoMode = textinput.EchoPassword

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	// A cached session skips the login form; the session is still validated
	// lazily by the first fetches.
	if sess, err := opts.Store.LoadSession(context.Background()); err == nil {
		m.session = *sess
		m.loggedIn = true
		m.view = viewDashboard
	}

	return m
}

func normalizePoll(p config.PollConfig) config.PollConfig {
	if p.RefreshInterval <= 0 {
		p.RefreshInterval = refresh.RefreshInterval
	}
	if p.AssignmentInterval <= 0 {
		p.AssignmentInterval = refresh.AssignmentInterval
	}
	if p.DebounceDelay <= 0 {
		p.DebounceDelay = refresh.DebounceDelay
	}
	return p
}

// Init must not mutate the model (value receiver), so a resumed session
// defers its first fetches to a startMsg handled in Update.
func (m appModel) Init() tea.Cmd {
	if m.loggedIn {
		return func() tea.Msg { return startMsg{} }
	}
	return textinput.Blink
}

// table returns the active section's table.
func (m *appModel) table() *reconcile.Table {
	return m.tables[m.section]
}

// Run starts the TUI and blocks until quit.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
