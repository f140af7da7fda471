package tui

import (
	"context"

	"cinema-booking-cli/auth"
	"cinema-booking-cli/model"

	tea "github.com/charmbracelet/bubbletea"
)

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type moviesMsg struct {
	movies []model.Movie
	err    error
}

type showtimesMsg struct {
	movie     model.Movie
	showtimes []model.Showtime
	err       error
}

type seatsMsg struct {
	showtimeID int64
	err        error
}

type submitMsg struct {
	reservation model.Reservation
	err         error
}

type navigateMsg struct {
	address string
}

type checkoutMsg struct {
	reservation model.Reservation
	showtime    model.Showtime
	found       bool
	err         error
}

type loginMsg struct {
	session auth.Session
	err     error
}

type profileMsg struct {
	user         model.User
	reservations []model.Reservation
	showtimes    []model.Showtime
	err          error
}

// channelNavigator hands workflow navigation over to the bubbletea loop.
type channelNavigator chan string

func (c channelNavigator) Navigate(address string) {
	c <- address
}

func waitForNavigation(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{address: <-ch}
	}
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func (m appModel) fetchMoviesCmd(refresh bool) tea.Cmd {
	return func() tea.Msg {
		movies, err := m.catalog.Movies(context.Background(), refresh)
		return moviesMsg{movies: movies, err: err}
	}
}

func (m appModel) fetchShowtimesCmd(movie model.Movie, refresh bool) tea.Cmd {
	return func() tea.Msg {
		showtimes, err := m.catalog.ShowtimesFor(context.Background(), movie, refresh)
		return showtimesMsg{movie: movie, showtimes: showtimes, err: err}
	}
}

func (m appModel) loadSeatsCmd(showtimeID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.workflow.Load(context.Background(), showtimeID)
		return seatsMsg{showtimeID: showtimeID, err: err}
	}
}

func (m appModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		reservation, err := m.workflow.Submit(context.Background())
		return submitMsg{reservation: reservation, err: err}
	}
}

func (m appModel) fetchCheckoutCmd(reservationID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		reservation, err := m.client.GetReservation(ctx, reservationID)
		if err != nil {
			return checkoutMsg{err: err}
		}
		msg := checkoutMsg{reservation: reservation}
		if showtimes, err := m.catalog.Showtimes(ctx, false); err == nil {
			for _, showtime := range showtimes {
				if showtime.Id == reservation.ShowtimeId {
					msg.showtime = showtime
					msg.found = true
					break
				}
			}
		}
		return msg
	}
}

func (m appModel) loginCmd(creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		pair, err := m.client.Login(context.Background(), creds)
		if err != nil {
			return loginMsg{err: err}
		}
		session, err := auth.NewSession(pair)
		if err != nil {
			return loginMsg{err: err}
		}
		if session.Username == "" {
			session.Username = creds.Username
		}
		return loginMsg{session: session}
	}
}

func (m appModel) fetchProfileCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		user, err := m.client.GetProfile(ctx)
		if err != nil {
			return profileMsg{err: err}
		}
		reservations, err := m.client.ListReservations(ctx)
		if err != nil {
			return profileMsg{err: err}
		}
		showtimes, _ := m.catalog.Showtimes(ctx, false)
		return profileMsg{user: user, reservations: reservations, showtimes: showtimes}
	}
}
