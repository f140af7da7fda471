package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-booking-cli/auth"
	"cinema-booking-cli/booking"
	"cinema-booking-cli/catalog"
	"cinema-booking-cli/logger"
	"cinema-booking-cli/model"
	"cinema-booking-cli/service"
	"cinema-booking-cli/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appState int

const (
	stateLoadingMovies appState = iota
	stateSelectMovie
	stateManageMovies
	stateLoadingShowtimes
	stateSelectShowtime
	stateLoadingSeats
	stateSeatMap
	stateSubmitting
	stateLoadingCheckout
	stateCheckout
	stateLogin
	stateLoggingIn
	stateLoadingProfile
	stateProfile
	stateError
)

// Deps are the collaborators of the interactive app.
type Deps struct {
	Client   *service.Client
	Catalog  *catalog.Catalog
	MaxSeats int
	Log      *logger.Logger
	Session  auth.Session
	LoggedIn bool
}

type appModel struct {
	client   *service.Client
	catalog  *catalog.Catalog
	log      *logger.Logger
	workflow *booking.Workflow
	nav      channelNavigator

	state     appState
	lastState appState
	err       error

	width  int
	height int

	session  auth.Session
	loggedIn bool
	status   string

	movies       []model.Movie
	movie        model.Movie
	hiddenMovies map[int64]bool

	movieList       list.Model
	moviePref       list.Model
	showtimeList    list.Model
	reservationList list.Model

	cursor          seatCursor
	showSeatNumbers bool
	notice          string
	noticeErr       bool

	checkout       checkoutMsg
	checkoutReturn appState

	profile model.User

	login           loginForm
	loginReturn     appState
	pendingShowtime int64

	spinner spinner.Model
}

func New(deps Deps) tea.Model {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	client := deps.Client
	if client == nil {
		client = service.NewClient("", nil)
		client.SetLogger(log)
	}
	cat := deps.Catalog
	if cat == nil {
		cat = catalog.New(client, nil, 10*time.Minute, log)
	}

	nav := make(channelNavigator, 4)
	m := appModel{
		client:   client,
		catalog:  cat,
		log:      log.WithComponent("tui"),
		workflow: booking.NewWorkflow(client, nav, deps.MaxSeats, log),
		nav:      nav,
		state:    stateLoadingMovies,
		session:  deps.Session,
		loggedIn: deps.LoggedIn,
	}

	m.movieList = newList("Select Movie")
	m.moviePref = newList("Visible Movies")
	m.showtimeList = newList("Showtimes")
	m.reservationList = newList("My Reservations")
	m.hiddenMovies = make(map[int64]bool)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchMoviesCmd(false), m.spinner.Tick, waitForNavigation(m.nav))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateLogin {
			return m.updateLogin(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		if service.IsUnauthorized(msg.err) {
			return m.requireLogin(stateSelectMovie, 0)
		}
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = m.recoverState()
		}
		m.state = stateError
		return m, nil

	case moviesMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.movies = msg.movies
		hidden, err := store.LoadHiddenMovies()
		if err != nil {
			m.log.Warn("load hidden movies", "error", err)
			hidden = map[int64]bool{}
		}
		m.hiddenMovies = hidden
		m.refreshMovieLists()
		m.state = stateSelectMovie
		return m, nil

	case showtimesMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectMovie)
		}
		if len(msg.showtimes) == 0 {
			return m, errWithReturnCmd(fmt.Errorf("no showtimes scheduled for %s", msg.movie.Title), stateSelectMovie)
		}
		recents, _ := store.LoadRecentShowtimes()
		m.showtimeList.Title = fmt.Sprintf("Showtimes • %s", msg.movie.Title)
		m.showtimeList.ResetFilter()
		m.showtimeList.SetItems(buildShowtimeItems(msg.showtimes, msg.movie.Duration, recents))
		m.showtimeList.Select(0)
		m.state = stateSelectShowtime
		return m, nil

	case seatsMsg:
		if m.state != stateLoadingSeats || msg.showtimeID != m.workflow.ShowtimeID() {
			return m, nil
		}
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return m.requireLogin(stateSelectShowtime, msg.showtimeID)
			}
			return m, errWithReturnCmd(errors.New(booking.Message(msg.err)), stateSelectShowtime)
		}
		if err := store.RememberShowtime(m.workflow.Showtime()); err != nil {
			m.log.Warn("remember showtime", "error", err)
		}
		m.cursor = firstFreeSeat(m.workflow.Rows())
		m.notice = ""
		m.noticeErr = false
		m.state = stateSeatMap
		return m, nil

	case submitMsg:
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return m.requireLogin(stateSeatMap, 0)
			}
			m.notice = booking.Message(msg.err)
			m.noticeErr = !errors.Is(msg.err, booking.ErrEmptySelection)
			if m.state == stateSubmitting {
				m.state = stateSeatMap
			}
			return m, nil
		}
		m.log.Debug("submission finished", "reservation_id", msg.reservation.Id)
		return m, nil

	case navigateMsg:
		next := waitForNavigation(m.nav)
		reservationID, ok := booking.ParseCheckoutAddress(msg.address)
		if !ok {
			m.log.Warn("unknown navigation", "address", msg.address)
			return m, next
		}
		m.checkoutReturn = stateSelectShowtime
		m.state = stateLoadingCheckout
		return m, tea.Batch(m.fetchCheckoutCmd(reservationID), m.spinner.Tick, next)

	case checkoutMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, m.checkoutReturn)
		}
		m.checkout = msg
		m.state = stateCheckout
		return m, nil

	case loginMsg:
		if msg.err != nil {
			m.login.err = loginErrorText(msg.err)
			m.login.password.SetValue("")
			m.login.focus = 1
			m.state = stateLogin
			return m, m.login.focusCmd()
		}
		if err := store.SaveSession(msg.session); err != nil {
			m.log.Warn("save session", "error", err)
		}
		m.session = msg.session
		m.loggedIn = true
		m.client.SetToken(msg.session.Access)
		m.status = "Logged in as " + msg.session.Username
		if id := m.pendingShowtime; id > 0 {
			m.pendingShowtime = 0
			return m.openShowtime(id)
		}
		m.state = m.loginReturn
		return m, nil

	case profileMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectMovie)
		}
		m.profile = msg.user
		m.reservationList.ResetFilter()
		m.reservationList.SetItems(buildReservationItems(msg.reservations, msg.showtimes))
		m.state = stateProfile
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectMovie:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateManageMovies:
		m.moviePref, cmd = m.moviePref.Update(msg)
	case stateSelectShowtime:
		m.showtimeList, cmd = m.showtimeList.Update(msg)
	case stateProfile:
		m.reservationList, cmd = m.reservationList.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingMovies, stateLoadingShowtimes, stateLoadingSeats, stateSubmitting, stateLoadingCheckout, stateLoggingIn, stateLoadingProfile:
		return header + "\n\n" + m.loadingView()
	case stateSelectMovie:
		return header + "\n\n" + m.movieList.View()
	case stateManageMovies:
		return header + "\n\n" + m.moviePref.View()
	case stateSelectShowtime:
		return header + "\n\n" + m.showtimeList.View()
	case stateSeatMap:
		return header + "\n\n" + m.renderSeatMap()
	case stateCheckout:
		return header + "\n\n" + m.checkoutView()
	case stateLogin:
		return header + "\n\n" + m.loginView()
	case stateProfile:
		return header + "\n\n" + m.profileView()
	case stateError:
		return header + "\n\n" + errorStyle.Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Cinema Booking")
	sub := []string{}
	if m.loggedIn {
		sub = append(sub, "User: "+m.session.Username)
	} else {
		sub = append(sub, "Not logged in")
	}
	if m.movie.Title != "" && m.state != stateSelectMovie && m.state != stateManageMovies {
		sub = append(sub, "Movie: "+m.movie.Title)
	}
	if m.state == stateSeatMap || m.state == stateSubmitting {
		showtime := m.workflow.Showtime()
		sub = append(sub, fmt.Sprintf("Showtime: %s • %s", formatStart(showtime.StartTime), showtime.Hall))
	}
	if m.status != "" {
		sub = append(sub, m.status)
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back • type to filter"
	switch m.state {
	case stateSelectMovie:
		hints = "ctrl+c quit • type to filter • enter showtimes • ctrl+r refresh • ctrl+t manage movies • ctrl+p my reservations • ctrl+l log in/out"
	case stateManageMovies:
		hints = "ctrl+c quit • esc back • type to filter • enter toggle movie visibility"
	case stateSelectShowtime:
		hints = "ctrl+c quit • esc back • type to filter • enter seat map • ctrl+r refresh"
	case stateSeatMap:
		hints = "ctrl+c quit • esc back • arrows/hjkl move • space select • enter reserve • r reload • n toggle numbers"
	case stateSubmitting:
		hints = "esc cancel"
	case stateCheckout:
		hints = "ctrl+c quit • esc back • enter done"
	case stateProfile:
		hints = "ctrl+c quit • esc back • type to filter • enter open reservation"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.workflow.Cancel()
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next.(appModel), cmd, true
	case "ctrl+r":
		switch m.state {
		case stateSelectMovie:
			m.state = stateLoadingMovies
			return m, tea.Batch(m.fetchMoviesCmd(true), m.spinner.Tick), true
		case stateSelectShowtime:
			m.state = stateLoadingShowtimes
			return m, tea.Batch(m.fetchShowtimesCmd(m.movie, true), m.spinner.Tick), true
		}
	case "ctrl+t":
		if m.state == stateSelectMovie {
			m.state = stateManageMovies
			m.refreshMovieLists()
			return m, nil, true
		}
	case "ctrl+p":
		if m.state == stateSelectMovie || m.state == stateSelectShowtime {
			return m.openProfile()
		}
	case "ctrl+l":
		if m.state == stateSelectMovie || m.state == stateSelectShowtime {
			if m.loggedIn {
				return m.logout(), nil, true
			}
			next, cmd := m.requireLogin(m.state, 0)
			return next.(appModel), cmd, true
		}
	}

	if m.state == stateSeatMap {
		return m.handleSeatMapKey(msg)
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectMovie:
			item, ok := m.movieList.SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.movie = item.movie
			m.state = stateLoadingShowtimes
			return m, tea.Batch(m.fetchShowtimesCmd(m.movie, false), m.spinner.Tick), true
		case stateManageMovies:
			return m.toggleMovieVisibility()
		case stateSelectShowtime:
			item, ok := m.showtimeList.SelectedItem().(showtimeItem)
			if !ok {
				return m, nil, true
			}
			if !m.hasSession() {
				next, cmd := m.requireLogin(stateSelectShowtime, item.showtime.Id)
				return next.(appModel), cmd, true
			}
			next, cmd := m.openShowtime(item.showtime.Id)
			return next.(appModel), cmd, true
		case stateCheckout:
			next, cmd := m.goBack()
			return next.(appModel), cmd, true
		case stateProfile:
			item, ok := m.reservationList.SelectedItem().(reservationItem)
			if !ok {
				return m, nil, true
			}
			m.checkoutReturn = stateProfile
			m.state = stateLoadingCheckout
			return m, tea.Batch(m.fetchCheckoutCmd(item.reservation.Id), m.spinner.Tick), true
		}
	}
	return m, nil, false
}

func (m appModel) handleSeatMapKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	rows := m.workflow.Rows()
	switch msg.String() {
	case "up", "k":
		m.cursor = m.cursor.move(rows, -1, 0)
	case "down", "j":
		m.cursor = m.cursor.move(rows, 1, 0)
	case "left", "h":
		m.cursor = m.cursor.move(rows, 0, -1)
	case "right", "l":
		m.cursor = m.cursor.move(rows, 0, 1)
	case " ", "x":
		m.toggleSeatAtCursor()
	case "n":
		m.showSeatNumbers = !m.showSeatNumbers
	case "r":
		next, cmd := m.openShowtime(m.workflow.ShowtimeID())
		return next.(appModel), cmd, true
	case "enter":
		if len(m.workflow.Selected()) == 0 {
			m.notice = booking.Message(booking.ErrEmptySelection)
			m.noticeErr = false
			return m, nil, true
		}
		m.notice = ""
		m.noticeErr = false
		m.state = stateSubmitting
		return m, tea.Batch(m.submitCmd(), m.spinner.Tick), true
	}
	return m, nil, true
}

func (m *appModel) toggleSeatAtCursor() {
	seat, ok := m.cursor.seat(m.workflow.Rows())
	if !ok {
		return
	}
	result, err := m.workflow.ToggleSeat(seat.Id)
	if err != nil {
		m.notice = booking.Message(err)
		m.noticeErr = true
		return
	}
	m.noticeErr = false
	switch result {
	case booking.Ignored:
		m.notice = fmt.Sprintf("Seat %d in row %d is already reserved.", seat.Number, seat.Row)
	default:
		m.notice = ""
	}
}

func (m appModel) openShowtime(showtimeID int64) (tea.Model, tea.Cmd) {
	if m.workflow.Busy() {
		m.state = stateSelectShowtime
		m.status = booking.Message(booking.ErrLoadInFlight)
		return m, nil
	}
	m.notice = ""
	m.noticeErr = false
	m.state = stateLoadingSeats
	return m, tea.Batch(m.loadSeatsCmd(showtimeID), m.spinner.Tick)
}

func (m appModel) openProfile() (appModel, tea.Cmd, bool) {
	if !m.hasSession() {
		next, cmd := m.requireLogin(m.state, 0)
		return next.(appModel), cmd, true
	}
	m.state = stateLoadingProfile
	return m, tea.Batch(m.fetchProfileCmd(), m.spinner.Tick), true
}

// requireLogin drops the local session and shows the login form. After a
// successful login the app goes back to returnState, or opens
// pendingShowtime when it is set.
func (m appModel) requireLogin(returnState appState, pendingShowtime int64) (tea.Model, tea.Cmd) {
	if m.loggedIn && !m.session.Valid(time.Now()) {
		m.status = "Session expired"
	}
	m.loggedIn = false
	m.client.SetToken("")
	if err := store.ClearSession(); err != nil {
		m.log.Warn("clear session", "error", err)
	}
	m.loginReturn = returnState
	m.pendingShowtime = pendingShowtime
	m.login = newLoginForm(m.session.Username)
	m.state = stateLogin
	return m, m.login.focusCmd()
}

func (m appModel) logout() appModel {
	if err := store.ClearSession(); err != nil {
		m.log.Warn("clear session", "error", err)
	}
	m.client.SetToken("")
	m.loggedIn = false
	m.session = auth.Session{}
	m.status = "Logged out"
	return m
}

func (m appModel) hasSession() bool {
	return m.loggedIn && m.session.Valid(time.Now())
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateManageMovies:
		m.refreshMovieLists()
		m.state = stateSelectMovie
	case stateSelectShowtime:
		m.state = stateSelectMovie
	case stateLoadingSeats:
		m.workflow.Cancel()
		m.state = stateSelectShowtime
	case stateSeatMap:
		m.state = stateSelectShowtime
	case stateSubmitting:
		if m.workflow.Cancel() {
			m.notice = "Cancelling reservation..."
			m.noticeErr = false
		}
	case stateCheckout:
		m.state = m.checkoutReturn
	case stateProfile:
		m.state = stateSelectMovie
	case stateLogin:
		m.pendingShowtime = 0
		m.state = m.loginReturn
	case stateError:
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m appModel) toggleMovieVisibility() (appModel, tea.Cmd, bool) {
	item, ok := m.moviePref.SelectedItem().(movieVisibilityItem)
	if !ok {
		return m, nil, true
	}
	hidden := !item.hidden
	if err := store.SetMovieHidden(item.movie.Id, hidden); err != nil {
		return m, errCmd(err), true
	}
	if hidden {
		m.hiddenMovies[item.movie.Id] = true
	} else {
		delete(m.hiddenMovies, item.movie.Id)
	}
	index := m.moviePref.Index()
	m.refreshMovieLists()
	m.moviePref.Select(index)
	return m, nil, true
}

func (m *appModel) refreshMovieLists() {
	m.movieList.SetItems(buildMovieItems(m.movies, m.hiddenMovies))
	m.moviePref.SetItems(buildMovieVisibilityItems(m.movies, m.hiddenMovies))
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectMovie:
		return &m.movieList
	case stateManageMovies:
		return &m.moviePref
	case stateSelectShowtime:
		return &m.showtimeList
	case stateProfile:
		return &m.reservationList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	switch m.state {
	case stateLoadingMovies, stateLoadingShowtimes, stateLoadingSeats, stateSubmitting, stateLoadingCheckout, stateLoggingIn, stateLoadingProfile:
		return true
	default:
		return false
	}
}

func (m appModel) loadingView() string {
	title := "Loading"
	detail := "Fetching data..."
	switch m.state {
	case stateLoadingMovies:
		title = "Loading movies"
	case stateLoadingShowtimes:
		title = "Loading showtimes"
	case stateLoadingSeats:
		title = "Loading seats"
	case stateSubmitting:
		title = "Reserving seats"
		detail = fmt.Sprintf("%d seat(s) • Total %s • esc to cancel", len(m.workflow.Selected()), m.workflow.Total())
		if m.notice != "" {
			detail = m.notice
		}
	case stateLoadingCheckout:
		title = "Opening checkout"
	case stateLoggingIn:
		title = "Logging in"
	case stateLoadingProfile:
		title = "Loading your reservations"
	}

	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint(detail))
}

func (m appModel) checkoutView() string {
	reservation := m.checkout.reservation
	headerChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2)
	label := lipgloss.NewStyle().Bold(true).Width(10)

	lines := []string{
		headerChip.Render(fmt.Sprintf("Reservation #%d", reservation.Id)),
		"",
	}
	if m.checkout.found {
		showtime := m.checkout.showtime
		lines = append(lines,
			lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Movie"), showtime.Movie),
			lipgloss.JoinHorizontal(lipgloss.Top, label.Render("When"), formatStart(showtime.StartTime)),
			lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Hall"), showtime.Hall),
		)
	} else {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Showtime"), fmt.Sprintf("#%d", reservation.ShowtimeId)))
	}

	total := reservation.TotalPrice
	if total == 0 && m.checkout.found {
		total = booking.Total(m.checkout.showtime.Price, len(reservation.SeatIds))
	}
	seats := make([]string, len(reservation.SeatIds))
	for i, id := range reservation.SeatIds {
		seats[i] = fmt.Sprintf("%d", id)
	}
	lines = append(lines,
		lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Seats"), strings.Join(seats, ", ")),
		lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Total"), total.String()),
		lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Status"), noticeStyle.Render(reservation.StatusLabel())),
		"",
		hint("Payment is completed at the box office."),
	)

	panelStyle := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		MarginTop(1)
	if m.width > 56 {
		panelStyle = panelStyle.Width(min(m.width-8, 84))
	}
	panel := panelStyle.Render(strings.Join(lines, "\n"))
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func (m appModel) profileView() string {
	name := strings.TrimSpace(m.profile.FirstName + " " + m.profile.LastName)
	line := m.profile.Username
	if name != "" {
		line = fmt.Sprintf("%s (%s)", name, m.profile.Username)
	}
	if m.profile.Email != "" {
		line += " • " + m.profile.Email
	}
	return lipgloss.NewStyle().Bold(true).Render(line) + "\n\n" + m.reservationList.View()
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.movieList.SetSize(m.width, h)
	m.moviePref.SetSize(m.width, h)
	m.showtimeList.SetSize(m.width, h)
	m.reservationList.SetSize(m.width, h-2)
}

func (m appModel) recoverState() appState {
	switch m.state {
	case stateLoadingMovies, stateLoadingShowtimes, stateLoadingProfile:
		return stateSelectMovie
	case stateLoadingSeats:
		return stateSelectShowtime
	case stateSubmitting:
		return stateSeatMap
	case stateLoadingCheckout:
		return m.checkoutReturn
	case stateLoggingIn:
		return stateLogin
	case stateError:
		return stateSelectMovie
	default:
		return m.state
	}
}

func loginErrorText(err error) string {
	if service.IsUnauthorized(err) {
		return "Wrong username or password."
	}
	if detail := service.Detail(err); detail != "" {
		return detail
	}
	return "Could not log in. Please try again."
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
