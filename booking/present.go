package booking

import (
	"sort"
	"time"

	"cinema-booking-cli/model"

	"golang.org/x/exp/maps"
)

// Row is one display row of the seat map.
type Row struct {
	Number int
	Seats  []model.Seat
}

// GroupRows groups seats by row, rows ascending, seats within a row ascending
// by number. The input slice is left untouched.
func GroupRows(seats []model.Seat) []Row {
	byRow := make(map[int][]model.Seat)
	for _, seat := range seats {
		byRow[seat.Row] = append(byRow[seat.Row], seat)
	}

	numbers := maps.Keys(byRow)
	sort.Ints(numbers)

	rows := make([]Row, 0, len(numbers))
	for _, n := range numbers {
		rowSeats := byRow[n]
		sort.SliceStable(rowSeats, func(i, j int) bool {
			return rowSeats[i].Number < rowSeats[j].Number
		})
		rows = append(rows, Row{Number: n, Seats: rowSeats})
	}
	return rows
}

// Total is the price of count seats.
func Total(price model.Money, count int) model.Money {
	if count <= 0 {
		return 0
	}
	return price.Times(count)
}

// EndTime is when a showtime starting at start ends, given the movie
// duration in minutes.
func EndTime(start time.Time, durationMinutes int) time.Time {
	if durationMinutes <= 0 {
		return start
	}
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// ShowtimeEnd prefers the server supplied end time and falls back to the
// movie duration when it is missing.
func ShowtimeEnd(showtime model.Showtime, durationMinutes int) time.Time {
	if showtime.EndTime != nil && !showtime.EndTime.IsZero() {
		return *showtime.EndTime
	}
	return EndTime(showtime.StartTime, durationMinutes)
}
