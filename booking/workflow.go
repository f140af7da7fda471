package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cinema-booking-cli/logger"
	"cinema-booking-cli/model"
	"cinema-booking-cli/service"
)

// API is the part of the Booking API the workflow needs.
type API interface {
	GetShowtimeSeats(ctx context.Context, showtimeID int64) ([]model.Seat, error)
	ListShowtimes(ctx context.Context) ([]model.Showtime, error)
	CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error)
}

// Navigator receives the address of the next stage after a successful
// submission.
type Navigator interface {
	Navigate(address string)
}

type NavigatorFunc func(address string)

func (f NavigatorFunc) Navigate(address string) { f(address) }

const (
	checkoutPrefix = "/checkout/"
	LoginAddress   = "/login"
)

func CheckoutAddress(reservationID int64) string {
	return checkoutPrefix + strconv.FormatInt(reservationID, 10)
}

// ParseCheckoutAddress returns the reservation id of a checkout address.
func ParseCheckoutAddress(address string) (int64, bool) {
	rest, ok := strings.CutPrefix(address, checkoutPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Inventory is the snapshot fetched at workflow entry.
type Inventory struct {
	Showtime model.Showtime
	Seats    []model.Seat
}

type LoadError struct {
	ShowtimeId int64
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load seats for showtime %d: %v", e.ShowtimeId, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit reservation: %v", e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Load fetches the seat list and the showtime record for showtimeID.
func Load(ctx context.Context, api API, showtimeID int64) (Inventory, error) {
	seats, err := api.GetShowtimeSeats(ctx, showtimeID)
	if err != nil {
		return Inventory{}, &LoadError{ShowtimeId: showtimeID, Err: err}
	}
	showtimes, err := api.ListShowtimes(ctx)
	if err != nil {
		return Inventory{}, &LoadError{ShowtimeId: showtimeID, Err: err}
	}
	for _, showtime := range showtimes {
		if showtime.Id == showtimeID {
			return Inventory{Showtime: showtime, Seats: seats}, nil
		}
	}
	return Inventory{}, &LoadError{ShowtimeId: showtimeID, Err: ErrShowtimeNotFound}
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateLoadFailed
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load failed"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "idle"
	}
}

// Workflow owns the state of one seat-selection session: the loaded
// inventory, the selection and the in-flight operation. All methods are safe
// to call from the UI loop while a load or submission runs elsewhere.
type Workflow struct {
	api API
	nav Navigator
	log *logger.Logger

	mu          sync.Mutex
	state       State
	showtimeID  int64
	inventory   Inventory
	rows        []Row
	seatsByID   map[int64]model.Seat
	selection   *Selection
	cancel      context.CancelFunc
	reservation model.Reservation
	err         error
}

func NewWorkflow(api API, nav Navigator, maxSeats int, log *logger.Logger) *Workflow {
	if log == nil {
		log = logger.Nop()
	}
	return &Workflow{
		api:       api,
		nav:       nav,
		log:       log.WithComponent("booking"),
		selection: NewSelection(maxSeats),
	}
}

// Load enters the workflow for showtimeID. The selection starts empty. On
// failure no partial seat map is kept.
func (w *Workflow) Load(ctx context.Context, showtimeID int64) error {
	w.mu.Lock()
	if w.state == StateLoading {
		w.mu.Unlock()
		return ErrLoadInFlight
	}
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	w.state = StateLoading
	w.showtimeID = showtimeID
	w.cancel = cancel
	w.inventory = Inventory{}
	w.rows = nil
	w.seatsByID = nil
	w.reservation = model.Reservation{}
	w.err = nil
	w.selection.Clear()
	w.mu.Unlock()

	inventory, err := Load(ctx, w.api, showtimeID)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancel = nil
	if err != nil {
		w.state = StateLoadFailed
		w.err = err
		w.log.WithShowtime(showtimeID).Warn("seat load failed", "error", err)
		return err
	}
	w.inventory = inventory
	w.rows = GroupRows(inventory.Seats)
	w.seatsByID = make(map[int64]model.Seat, len(inventory.Seats))
	for _, seat := range inventory.Seats {
		w.seatsByID[seat.Id] = seat
	}
	w.state = StateReady
	w.log.WithShowtime(showtimeID).Info("seats loaded", "seats", len(inventory.Seats), "rows", len(w.rows))
	return nil
}

// Toggle applies a click on seat. The reserved flag comes from the loaded
// inventory, never from the caller's copy of the seat.
func (w *Workflow) Toggle(seat model.Seat) (ToggleResult, error) {
	return w.ToggleSeat(seat.Id)
}

// ToggleSeat toggles a seat of the loaded inventory by id.
func (w *Workflow) ToggleSeat(seatID int64) (ToggleResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReady {
		return Ignored, ErrNotReady
	}
	seat, ok := w.seatsByID[seatID]
	if !ok {
		return Ignored, fmt.Errorf("%w: %d", ErrUnknownSeat, seatID)
	}
	return w.selection.Toggle(seat)
}

// Submit posts the current selection as a reservation and, on success, hands
// the checkout address to the navigator. On failure the selection is kept so
// the user can retry or adjust. Every call is a new request.
func (w *Workflow) Submit(ctx context.Context) (model.Reservation, error) {
	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		return model.Reservation{}, ErrSubmissionInFlight
	case StateReady:
	default:
		w.mu.Unlock()
		return model.Reservation{}, ErrNotReady
	}
	if w.selection.Len() == 0 {
		w.mu.Unlock()
		return model.Reservation{}, ErrEmptySelection
	}
	req := model.ReservationRequest{
		ShowtimeId: w.showtimeID,
		SeatIds:    w.selection.IDs(),
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.state = StateSubmitting
	w.err = nil
	w.mu.Unlock()

	reservation, err := w.api.CreateReservation(ctx, req)
	cancel()

	w.mu.Lock()
	w.cancel = nil
	if err != nil {
		w.state = StateReady
		w.err = &SubmitError{Err: err}
		w.mu.Unlock()
		w.log.WithShowtime(req.ShowtimeId).Warn("reservation submission failed", "seats", req.SeatIds, "error", err)
		return model.Reservation{}, w.err
	}
	w.state = StateSubmitted
	w.reservation = reservation
	nav := w.nav
	w.mu.Unlock()

	w.log.WithShowtime(req.ShowtimeId).Info("reservation submitted", "reservation_id", reservation.Id, "seats", req.SeatIds)
	if nav != nil {
		nav.Navigate(CheckoutAddress(reservation.Id))
	}
	return reservation, nil
}

// Cancel aborts the pending load or submission, if any. It reports whether
// there was something to cancel.
func (w *Workflow) Cancel() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel == nil {
		return false
	}
	w.cancel()
	return true
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy reports whether a load or submission is in flight.
func (w *Workflow) Busy() bool {
	state := w.State()
	return state == StateLoading || state == StateSubmitting
}

func (w *Workflow) ShowtimeID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.showtimeID
}

func (w *Workflow) Showtime() model.Showtime {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inventory.Showtime
}

// Rows returns the grouped seat map. Callers must not modify it.
func (w *Workflow) Rows() []Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

func (w *Workflow) Selected() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.IDs()
}

func (w *Workflow) IsSelected(seatID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Contains(seatID)
}

func (w *Workflow) MaxSeats() int {
	return w.selection.Max()
}

// Total is recomputed from the current selection on every call.
func (w *Workflow) Total() model.Money {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Total(w.inventory.Showtime.Price, w.selection.Len())
}

func (w *Workflow) Reservation() model.Reservation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reservation
}

// Err is the last load or submission error.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Message turns a workflow error into the text shown to the user. Each
// failure class has one generic message.
func Message(err error) string {
	var loadErr *LoadError
	var submitErr *SubmitError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCapacityExceeded):
		return err.Error()
	case errors.Is(err, ErrEmptySelection):
		return "Please select at least one seat."
	case errors.Is(err, ErrSubmissionInFlight):
		return "Your reservation is being processed."
	case errors.Is(err, ErrLoadInFlight):
		return "Seats are still loading."
	case service.IsUnauthorized(err):
		return "Your session has expired. Please log in again."
	case errors.As(err, &loadErr):
		if errors.Is(err, ErrShowtimeNotFound) {
			return "This showtime is no longer available."
		}
		return "Could not load seats. Please try again."
	case errors.As(err, &submitErr):
		if errors.Is(err, context.Canceled) {
			return "Reservation cancelled."
		}
		if detail := service.Detail(err); detail != "" {
			return "Reservation failed: " + detail
		}
		return "Reservation failed. Please try again."
	default:
		return err.Error()
	}
}
