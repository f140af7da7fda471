// Package booking holds the seat-selection and reservation-submission
// workflow. It has no knowledge of rendering; the TUI and the CLI both drive
// it through the same transitions.
package booking

import (
	"errors"
	"fmt"
	"slices"

	"cinema-booking-cli/model"
)

// DefaultMaxSeats is the number of seats a single reservation may hold.
const DefaultMaxSeats = 5

var (
	ErrCapacityExceeded   = errors.New("seat limit reached")
	ErrEmptySelection     = errors.New("no seats selected")
	ErrLoadInFlight       = errors.New("seats are already loading")
	ErrSubmissionInFlight = errors.New("reservation is already being submitted")
	ErrNotReady           = errors.New("seat map is not ready")
	ErrUnknownSeat        = errors.New("unknown seat")
	ErrShowtimeNotFound   = errors.New("showtime not found")
)

type ToggleResult int

const (
	Ignored ToggleResult = iota
	Selected
	Deselected
)

func (r ToggleResult) String() string {
	switch r {
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	default:
		return "ignored"
	}
}

// Selection is an ordered set of seat ids bounded by max. Reserved seats
// never enter it.
type Selection struct {
	max int
	ids []int64
}

func NewSelection(max int) *Selection {
	if max < 1 {
		max = DefaultMaxSeats
	}
	return &Selection{max: max}
}

// Toggle applies a seat click. A reserved seat is ignored; a selected seat is
// removed; a free seat is appended unless the selection is full, in which case
// ErrCapacityExceeded is returned and nothing changes.
func (s *Selection) Toggle(seat model.Seat) (ToggleResult, error) {
	if seat.IsReserved {
		return Ignored, nil
	}
	if i := slices.Index(s.ids, seat.Id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return Deselected, nil
	}
	if len(s.ids) >= s.max {
		return Ignored, fmt.Errorf("%w: you can select up to %d seats", ErrCapacityExceeded, s.max)
	}
	s.ids = append(s.ids, seat.Id)
	return Selected, nil
}

func (s *Selection) Contains(id int64) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []int64 {
	return slices.Clone(s.ids)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Max() int {
	return s.max
}

func (s *Selection) AtCapacity() bool {
	return len(s.ids) >= s.max
}

func (s *Selection) Clear() {
	s.ids = nil
}
