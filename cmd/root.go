package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"cinema-booking-cli/auth"
	"cinema-booking-cli/catalog"
	"cinema-booking-cli/config"
	"cinema-booking-cli/logger"
	"cinema-booking-cli/service"
	"cinema-booking-cli/store"
	"cinema-booking-cli/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errLoginRequired = errors.New("login required")

// app carries the dependencies shared by every command. It is filled in by
// the root PersistentPreRunE.
type app struct {
	version string
	commit  string

	apiURL   string
	maxSeats int

	cfg      config.Config
	log      *logger.Logger
	closers  []io.Closer
	client   *service.Client
	shared   *store.SharedCache
	catalog  *catalog.Catalog
	session  auth.Session
	loggedIn bool
}

// Execute runs the command line and exits with a non-zero status on failure.
func Execute(version, commit string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd(version, commit)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(version, commit string) *cobra.Command {
	a := &app{version: version, commit: commit}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Browse showtimes and book cinema seats",
		Long:          `Browse movies and showtimes, pick seats on a live seat map and reserve them, all from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "Booking API base URL (overrides BOOKING_API_URL)")
	root.PersistentFlags().IntVar(&a.maxSeats, "max-seats", 0, "maximum seats per reservation (overrides BOOKING_MAX_SEATS)")

	root.AddCommand(
		newVersionCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newMoviesCmd(a),
		newShowtimesCmd(a),
		newSeatsCmd(a),
		newReserveCmd(a),
		newCheckoutCmd(a),
		newReservationsCmd(a),
		newProfileCmd(a),
		newAdminCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", config.AppName, a.version)
			if a.commit != "none" && a.commit != "" {
				fmt.Fprintf(out, " (%s)", a.commit)
			}
			fmt.Fprintln(out)
		},
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, warnings := config.Load()
	if strings.TrimSpace(a.apiURL) != "" {
		cfg.APIURL = strings.TrimRight(strings.TrimSpace(a.apiURL), "/")
	}
	if a.maxSeats > 0 {
		cfg.MaxSeats = a.maxSeats
	}
	a.cfg = cfg

	a.log = logger.Nop()
	if cfg.LogFile != "" {
		log, closer, err := logger.Open(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		} else {
			a.log = log
			a.closers = append(a.closers, closer)
		}
	}
	for _, warning := range warnings {
		a.log.Warn("config", "warning", warning)
	}

	a.client = service.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout})
	a.client.SetLogger(a.log)
	a.client.SetUserAgent(fmt.Sprintf("%s/%s", config.AppName, a.version))

	session, ok, err := store.LoadSession()
	if err != nil {
		a.log.Warn("load session", "error", err)
	}
	if ok && session.Valid(time.Now()) {
		a.session = session
		a.loggedIn = true
		a.client.SetToken(session.Access)
	}

	a.shared = store.NewSharedCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if a.shared != nil {
		a.closers = append(a.closers, a.shared)
	}
	a.catalog = catalog.New(a.client, a.shared, cfg.CacheTTL, a.log)
	a.log.Debug("startup", "api", cfg.APIURL, "max_seats", cfg.MaxSeats, "shared_cache", a.shared != nil, "logged_in", a.loggedIn)
	return nil
}

func (a *app) close() {
	for _, closer := range a.closers {
		_ = closer.Close()
	}
	a.closers = nil
}

func (a *app) runTUI(cmd *cobra.Command) error {
	model := tui.New(tui.Deps{
		Client:   a.client,
		Catalog:  a.catalog,
		MaxSeats: a.cfg.MaxSeats,
		Log:      a.log,
		Session:  a.session,
		LoggedIn: a.loggedIn,
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
		return nil
	}
	return err
}

func (a *app) requireLogin() error {
	if !a.loggedIn {
		return errLoginRequired
	}
	return nil
}

// requireStaff trusts the token claim when present and asks the API
// otherwise.
func (a *app) requireStaff(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.session.IsStaff {
		return nil
	}
	user, err := a.client.GetProfile(ctx)
	if err != nil {
		return err
	}
	if !user.IsStaff {
		return errors.New("this command requires a staff account")
	}
	return nil
}

func describeError(err error) string {
	if errors.Is(err, errLoginRequired) || service.IsUnauthorized(err) {
		return fmt.Sprintf("login required: run `%s login`", config.AppName)
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if detail := service.Detail(err); detail != "" {
		return "error: " + detail
	}
	return "error: " + err.Error()
}
