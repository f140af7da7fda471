package booking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cinema-booking-cli/model"
	"cinema-booking-cli/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	seats     []model.Seat
	showtimes []model.Showtime
	seatsErr  error

	submitCalls atomic.Int32
	lastRequest model.ReservationRequest
	submitErr   error
	reservation model.Reservation
	block       chan struct{}
	seatsBlock  chan struct{}
}

func (f *fakeAPI) GetShowtimeSeats(ctx context.Context, showtimeID int64) ([]model.Seat, error) {
	if f.seatsBlock != nil {
		select {
		case <-f.seatsBlock:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.seatsErr != nil {
		return nil, f.seatsErr
	}
	return f.seats, nil
}

func (f *fakeAPI) ListShowtimes(ctx context.Context) ([]model.Showtime, error) {
	return f.showtimes, nil
}

func (f *fakeAPI) CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
	f.submitCalls.Add(1)
	f.lastRequest = req
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return model.Reservation{}, ctx.Err()
		}
	}
	if f.submitErr != nil {
		return model.Reservation{}, f.submitErr
	}
	return f.reservation, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		seats: []model.Seat{
			seat(7, 1, 1, false),
			seat(8, 1, 2, true),
			seat(9, 1, 3, false),
			seat(10, 2, 1, false),
		},
		showtimes: []model.Showtime{
			{Id: 41, Price: 900},
			{Id: 42, Price: 1250, Movie: "Dune", Hall: "Hall 1"},
		},
		reservation: model.Reservation{Id: 101, ShowtimeId: 42},
	}
}

func readyWorkflow(t *testing.T, api *fakeAPI, nav Navigator) *Workflow {
	t.Helper()
	wf := NewWorkflow(api, nav, 5, nil)
	require.NoError(t, wf.Load(context.Background(), 42))
	require.Equal(t, StateReady, wf.State())
	return wf
}

func TestWorkflow_LoadGroupsSeatsAndFindsShowtime(t *testing.T) {
	wf := readyWorkflow(t, newFakeAPI(), nil)

	assert.Equal(t, "Dune", wf.Showtime().Movie)
	rows := wf.Rows()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0].Seats, 3)
	assert.Empty(t, wf.Selected())
	assert.Equal(t, model.Money(0), wf.Total())
}

func TestWorkflow_LoadFailureKeepsNoSeatMap(t *testing.T) {
	api := newFakeAPI()
	api.seatsErr = errors.New("connection refused")
	wf := NewWorkflow(api, nil, 5, nil)

	err := wf.Load(context.Background(), 42)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, StateLoadFailed, wf.State())
	assert.Empty(t, wf.Rows())
	assert.Equal(t, "Could not load seats. Please try again.", Message(err))

	_, err = wf.ToggleSeat(7)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestWorkflow_LoadUnknownShowtime(t *testing.T) {
	wf := NewWorkflow(newFakeAPI(), nil, 5, nil)

	err := wf.Load(context.Background(), 77)
	require.ErrorIs(t, err, ErrShowtimeNotFound)
	assert.Equal(t, "This showtime is no longer available.", Message(err))
}

func TestWorkflow_TotalFollowsSelection(t *testing.T) {
	wf := readyWorkflow(t, newFakeAPI(), nil)

	for _, id := range []int64{7, 9, 10} {
		_, err := wf.ToggleSeat(id)
		require.NoError(t, err)
	}
	assert.Equal(t, "37.50", wf.Total().String())

	_, err := wf.ToggleSeat(9)
	require.NoError(t, err)
	assert.Equal(t, "25.00", wf.Total().String())
}

func TestWorkflow_ReservedAndUnknownSeats(t *testing.T) {
	wf := readyWorkflow(t, newFakeAPI(), nil)

	result, err := wf.ToggleSeat(8)
	require.NoError(t, err)
	assert.Equal(t, Ignored, result)
	assert.False(t, wf.IsSelected(8))

	_, err = wf.ToggleSeat(1000)
	assert.ErrorIs(t, err, ErrUnknownSeat)
}

func TestWorkflow_EmptySubmitMakesNoCall(t *testing.T) {
	api := newFakeAPI()
	wf := readyWorkflow(t, api, nil)

	_, err := wf.Submit(context.Background())
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, int32(0), api.submitCalls.Load())
	assert.Equal(t, "Please select at least one seat.", Message(err))
	assert.Equal(t, StateReady, wf.State())
}

func TestWorkflow_SubmitFailurePreservesSelection(t *testing.T) {
	api := newFakeAPI()
	api.submitErr = &service.APIError{StatusCode: http.StatusConflict, Status: "409 Conflict", Detail: "Seat 9 is already reserved."}
	wf := readyWorkflow(t, api, nil)
	_, _ = wf.ToggleSeat(7)
	_, _ = wf.ToggleSeat(9)

	_, err := wf.Submit(context.Background())
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, "Reservation failed: Seat 9 is already reserved.", Message(err))
	assert.Equal(t, StateReady, wf.State())
	assert.Equal(t, []int64{7, 9}, wf.Selected())

	api.submitErr = nil
	_, err = wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.submitCalls.Load())
}

func TestWorkflow_SubmitGatesDuplicates(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	wf := readyWorkflow(t, api, nil)
	_, _ = wf.ToggleSeat(7)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return wf.State() == StateSubmitting }, time.Second, time.Millisecond)

	_, err := wf.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	_, err = wf.ToggleSeat(9)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.True(t, wf.Busy())

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), api.submitCalls.Load())
	assert.Equal(t, StateSubmitted, wf.State())
}

func TestWorkflow_CancelInFlightSubmission(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	wf := readyWorkflow(t, api, nil)
	_, _ = wf.ToggleSeat(7)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return wf.State() == StateSubmitting }, time.Second, time.Millisecond)

	assert.True(t, wf.Cancel())
	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Reservation cancelled.", Message(err))
	assert.Equal(t, StateReady, wf.State())
	assert.Equal(t, []int64{7}, wf.Selected())
	assert.False(t, wf.Cancel())
}

func TestWorkflow_CapacityMessage(t *testing.T) {
	api := newFakeAPI()
	api.seats = nil
	for i := int64(1); i <= 6; i++ {
		api.seats = append(api.seats, seat(i, 1, int(i), false))
	}
	wf := readyWorkflow(t, api, nil)

	for i := int64(1); i <= 5; i++ {
		_, err := wf.ToggleSeat(i)
		require.NoError(t, err)
	}
	_, err := wf.ToggleSeat(6)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, "seat limit reached: you can select up to 5 seats", Message(err))
	assert.Len(t, wf.Selected(), 5)
}

func TestWorkflow_SubmitPostsSelectionAndNavigates(t *testing.T) {
	var posts atomic.Int32
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/showtime/42/seats":
			_, _ = w.Write([]byte(`[{"id": 7, "row": 1, "number": 1, "is_reserved": false}, {"id": 9, "row": 1, "number": 2, "is_reserved": false}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/showtimes/":
			_, _ = w.Write([]byte(`[{"id": 42, "price": "12.50", "movie": "Dune", "hall": "Hall 1", "start_time": "2026-02-03T19:30:00Z"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/reservations/":
			posts.Add(1)
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 101}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	var address string
	client := service.NewClient(server.URL, server.Client())
	wf := NewWorkflow(client, NavigatorFunc(func(a string) { address = a }), 5, nil)

	require.NoError(t, wf.Load(context.Background(), 42))
	_, err := wf.ToggleSeat(7)
	require.NoError(t, err)
	_, err = wf.ToggleSeat(9)
	require.NoError(t, err)

	reservation, err := wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(101), reservation.Id)
	assert.Equal(t, int32(1), posts.Load())
	assert.JSONEq(t, `{"showtime_id": 42, "seat_ids": [7, 9]}`, string(body))
	assert.Equal(t, "/checkout/101", address)

	id, ok := ParseCheckoutAddress(address)
	assert.True(t, ok)
	assert.Equal(t, int64(101), id)
}

func TestParseCheckoutAddress_Invalid(t *testing.T) {
	for _, address := range []string{"", "/checkout/", "/checkout/abc", "/profile", LoginAddress} {
		_, ok := ParseCheckoutAddress(address)
		assert.False(t, ok, address)
	}
}

func TestMessage_Unauthorized(t *testing.T) {
	err := &SubmitError{Err: &service.APIError{StatusCode: http.StatusUnauthorized}}
	assert.Equal(t, "Your session has expired. Please log in again.", Message(err))
	assert.Empty(t, Message(nil))
}

func TestWorkflow_ToggleUsesLoadedSeat(t *testing.T) {
	api := newFakeAPI()
	wf := readyWorkflow(t, api, nil)

	result, err := wf.Toggle(model.Seat{Id: 8, Row: 1, Number: 2, IsReserved: false})
	require.NoError(t, err)
	assert.Equal(t, Ignored, result)
	assert.Empty(t, wf.Selected())

	_, err = wf.Toggle(model.Seat{Id: 9999})
	assert.ErrorIs(t, err, ErrUnknownSeat)
	assert.Empty(t, wf.Selected())

	_, err = wf.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, int32(0), api.submitCalls.Load())
}

func TestWorkflow_LoadGatesDuplicates(t *testing.T) {
	api := newFakeAPI()
	api.seatsBlock = make(chan struct{})
	wf := NewWorkflow(api, nil, 5, nil)

	done := make(chan error, 1)
	go func() { done <- wf.Load(context.Background(), 42) }()
	require.Eventually(t, func() bool { return wf.State() == StateLoading }, time.Second, time.Millisecond)

	assert.ErrorIs(t, wf.Load(context.Background(), 42), ErrLoadInFlight)
	assert.True(t, wf.Busy())
	_, err := wf.ToggleSeat(7)
	assert.ErrorIs(t, err, ErrNotReady)

	close(api.seatsBlock)
	require.NoError(t, <-done)
	assert.Equal(t, StateReady, wf.State())
	assert.Len(t, wf.Rows(), 2)
}

func TestWorkflow_CancelInFlightLoad(t *testing.T) {
	api := newFakeAPI()
	api.seatsBlock = make(chan struct{})
	wf := NewWorkflow(api, nil, 5, nil)

	done := make(chan error, 1)
	go func() { done <- wf.Load(context.Background(), 42) }()
	require.Eventually(t, func() bool { return wf.State() == StateLoading }, time.Second, time.Millisecond)

	assert.True(t, wf.Cancel())
	err := <-done
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateLoadFailed, wf.State())
	assert.Empty(t, wf.Rows())
	assert.False(t, wf.Busy())
	assert.False(t, wf.Cancel())
}

func TestWorkflow_LoadDuringSubmissionIsRejected(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	wf := readyWorkflow(t, api, nil)
	_, _ = wf.ToggleSeat(7)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return wf.State() == StateSubmitting }, time.Second, time.Millisecond)

	assert.ErrorIs(t, wf.Load(context.Background(), 42), ErrSubmissionInFlight)
	assert.Equal(t, []int64{7}, wf.Selected())

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, StateSubmitted, wf.State())
}
