package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinema-booking-cli/model"
)

func TestListShowtimes_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/showtimes/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
  {"id": 42, "price": "12.50", "movie": "Dune", "hall": "Hall 1", "start_time": "2026-02-03T19:30:00Z"},
  {"id": 43, "price": 9.9, "movie": "Alien", "hall": "Hall 2", "start_time": "2026-02-03T21:00:00Z"}
]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	showtimes, err := client.ListShowtimes(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(showtimes) != 2 {
		t.Fatalf("expected 2 showtimes, got %d", len(showtimes))
	}
	if showtimes[0].Price != 1250 || showtimes[1].Price != 990 {
		t.Fatalf("unexpected prices: %s %s", showtimes[0].Price, showtimes[1].Price)
	}
	if showtimes[0].StartTime.Hour() != 19 {
		t.Fatalf("unexpected start time: %s", showtimes[0].StartTime)
	}
}

func TestListMovies_Paginated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 1, "title": "Dune", "duration": 155}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	movies, err := client.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Dune" || movies[0].Duration != 155 {
		t.Fatalf("unexpected movies: %+v", movies)
	}
}

func TestGetShowtimeSeats_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/showtime/42/seats" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
  {"id": 7, "row": 1, "number": 1, "is_reserved": false},
  {"id": 8, "row": 1, "number": 2, "is_reserved": true}
]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	seats, err := client.GetShowtimeSeats(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(seats))
	}
	if seats[0].IsReserved || !seats[1].IsReserved {
		t.Fatalf("unexpected reservation flags: %+v", seats)
	}
}

func TestCreateReservation_PostsBody(t *testing.T) {
	var body map[string]any
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reservations/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		requestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 101, "showtime_id": 42, "seat_ids": [7, 9], "status": "pending", "total_price": "25.00"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.newID = func() string { return "req-1" }

	reservation, err := client.CreateReservation(context.Background(), model.ReservationRequest{ShowtimeId: 42, SeatIds: []int64{7, 9}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if reservation.Id != 101 || reservation.TotalPrice != 2500 {
		t.Fatalf("unexpected reservation: %+v", reservation)
	}
	if requestID != "req-1" {
		t.Fatalf("unexpected request id: %q", requestID)
	}
	if body["showtime_id"] != float64(42) {
		t.Fatalf("unexpected showtime_id: %v", body["showtime_id"])
	}
	seats, _ := body["seat_ids"].([]any)
	if len(seats) != 2 || seats[0] != float64(7) || seats[1] != float64(9) {
		t.Fatalf("unexpected seat_ids: %v", body["seat_ids"])
	}
}

func TestCreateReservation_RejectsEmptySelection(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	if _, err := client.CreateReservation(context.Background(), model.ReservationRequest{ShowtimeId: 42}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

func TestGetReservation_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservations/5/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 1

	_, err := client.GetReservation(context.Background(), 5)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
