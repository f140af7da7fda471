package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/model"
	"cinema-booking-cli/store"

	"github.com/charmbracelet/bubbles/list"
)

type movieItem struct {
	movie model.Movie
}

func (m movieItem) Title() string {
	return m.movie.Title
}

func (m movieItem) Description() string {
	parts := []string{}
	if m.movie.Genre != "" {
		parts = append(parts, m.movie.Genre)
	}
	if d := formatDuration(m.movie.Duration); d != "" {
		parts = append(parts, d)
	}
	if m.movie.ReleaseDate != "" {
		parts = append(parts, m.movie.ReleaseDate)
	}
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{m.movie.Title, m.movie.Genre, m.movie.Description}, " "))
}

type movieVisibilityItem struct {
	movie  model.Movie
	hidden bool
}

func (m movieVisibilityItem) Title() string {
	if m.hidden {
		return fmt.Sprintf("[ ] %s", m.movie.Title)
	}
	return fmt.Sprintf("[x] %s", m.movie.Title)
}

func (m movieVisibilityItem) Description() string {
	if m.hidden {
		return "hidden"
	}
	return "visible"
}

func (m movieVisibilityItem) FilterValue() string {
	return strings.ToLower(m.movie.Title)
}

type showtimeItem struct {
	showtime model.Showtime
	end      time.Time
	recent   bool
}

func (s showtimeItem) Title() string {
	hall := strings.TrimSpace(s.showtime.Hall)
	if hall == "" {
		hall = "Hall"
	}
	return fmt.Sprintf("%s • %s", formatStart(s.showtime.StartTime), hall)
}

func (s showtimeItem) Description() string {
	parts := []string{}
	if s.recent {
		parts = append(parts, "Recent")
	}
	if s.end.After(s.showtime.StartTime) {
		parts = append(parts, "ends "+s.end.Local().Format("15:04"))
	}
	parts = append(parts, s.showtime.Price.String()+" per seat")
	return strings.Join(parts, " • ")
}

func (s showtimeItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{s.showtime.Hall, s.showtime.Movie, formatStart(s.showtime.StartTime)}, " "))
}

type reservationItem struct {
	reservation model.Reservation
	showtime    model.Showtime
	found       bool
}

func (r reservationItem) Title() string {
	if r.found {
		return fmt.Sprintf("#%d • %s • %s", r.reservation.Id, r.showtime.Movie, formatStart(r.showtime.StartTime))
	}
	return fmt.Sprintf("#%d • showtime %d", r.reservation.Id, r.reservation.ShowtimeId)
}

func (r reservationItem) Description() string {
	return fmt.Sprintf("%d seat(s) • %s • %s", len(r.reservation.SeatIds), r.reservation.TotalPrice, r.reservation.StatusLabel())
}

func (r reservationItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{r.showtime.Movie, r.showtime.Hall, r.reservation.Status}, " "))
}

func buildMovieItems(movies []model.Movie, hidden map[int64]bool) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		if hidden[movie.Id] {
			continue
		}
		items = append(items, movieItem{movie: movie})
	}
	return items
}

func buildMovieVisibilityItems(movies []model.Movie, hidden map[int64]bool) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieVisibilityItem{movie: movie, hidden: hidden[movie.Id]})
	}
	return items
}

// buildShowtimeItems lists recently opened showtimes first, in the order they
// were opened, then the rest by start time.
func buildShowtimeItems(showtimes []model.Showtime, duration int, recents []store.RecentShowtime) []list.Item {
	rank := make(map[int64]int, len(recents))
	for i, recent := range recents {
		rank[recent.ShowtimeID] = i
	}

	ordered := append([]model.Showtime(nil), showtimes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, iRecent := rank[ordered[i].Id]
		rj, jRecent := rank[ordered[j].Id]
		if iRecent != jRecent {
			return iRecent
		}
		if iRecent {
			return ri < rj
		}
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	items := make([]list.Item, 0, len(ordered))
	for _, showtime := range ordered {
		_, recent := rank[showtime.Id]
		items = append(items, showtimeItem{
			showtime: showtime,
			end:      booking.ShowtimeEnd(showtime, duration),
			recent:   recent,
		})
	}
	return items
}

func buildReservationItems(reservations []model.Reservation, showtimes []model.Showtime) []list.Item {
	byID := make(map[int64]model.Showtime, len(showtimes))
	for _, showtime := range showtimes {
		byID[showtime.Id] = showtime
	}
	items := make([]list.Item, 0, len(reservations))
	for _, reservation := range reservations {
		showtime, found := byID[reservation.ShowtimeId]
		items = append(items, reservationItem{reservation: reservation, showtime: showtime, found: found})
	}
	return items
}

func formatStart(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("Mon 02 Jan 15:04")
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
