package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"loandesk-cli/internal/api"
	"loandesk-cli/internal/config"
	"loandesk-cli/internal/format"
	"loandesk-cli/internal/store"
	"loandesk-cli/internal/tui"
)

type App struct {
	APIURL     string
	Actor      string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "loandesk",
		Short:        "Loan application workflow client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  loandesk

  # Scriptable commands
  loandesk login jane --password -
  loandesk apps list --status pending
  loandesk apps show LA-042
  loandesk apps approve LA-042 --comment "Within limits"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("LOANDESK_API_BASE_URL", ""), "Workflow service base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Actor, "actor", envOr("LOANDESK_ACTOR", ""), "Acting user name (default: cached session)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LOANDESK_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newAppsCmd(app))
	cmd.AddCommand(newUsersCmd(app))

	return cmd
}

// deps bundles what a command needs to talk to the service and local state.
type deps struct {
	cfg    config.Config
	log    zerolog.Logger
	client *api.Client
	store  *store.Store
}

func (d *deps) close() {
	if d.store != nil {
		_ = d.store.Close()
	}
}

func loadDeps(ctx context.Context, app *App) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if app.APIURL != "" {
		cfg.API.BaseURL = app.APIURL
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.State.Path)
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, log: log, client: client, store: st}, nil
}

// newLogger writes to a file so log lines never tear the TUI screen.
func newLogger(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return zerolog.Logger{}, err
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger(), nil
}

// currentActor resolves who is acting: the --actor flag, else the cached
// session.
func currentActor(ctx context.Context, app *App, d *deps) (store.Session, error) {
	if app.Actor != "" {
		// A flag-supplied actor has no cached role; the server permission
		// lookup fills it in per operation.
		return store.Session{Name: app.Actor}, nil
	}
	sess, err := d.store.LoadSession(ctx)
	if err != nil {
		return store.Session{}, errNotLoggedIn{}
	}
	return *sess, nil
}

// actorName is the best-effort actor for read-only calls: the flag, else the
// cached session, else empty.
func actorName(ctx context.Context, app *App, d *deps) string {
	sess, err := currentActor(ctx, app, d)
	if err != nil {
		return ""
	}
	return sess.Name
}

func runTUI(app *App) error {
	ctx := context.Background()
	d, err := loadDeps(ctx, app)
	if err != nil {
		return err
	}
	defer d.close()
	return tui.Run(tui.Options{
		Client: d.client,
		Store:  d.store,
		Log:    d.log,
		Poll:   d.cfg.Poll,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
