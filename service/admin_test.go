package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinema-booking-cli/model"
)

func TestCreateHall_ValidatesBeforeRequest(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	cases := []model.HallInput{
		{Name: "", Rows: 5, SeatsPerRow: 5},
		{Name: "Hall 1", Rows: 0, SeatsPerRow: 5},
		{Name: "Hall 1", Rows: 5, SeatsPerRow: 51},
	}
	for _, in := range cases {
		if _, err := client.CreateHall(context.Background(), in); err == nil {
			t.Fatalf("expected validation error for %+v", in)
		}
	}
	if calls != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

func TestCreateShowtime_OK(t *testing.T) {
	start := time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC)
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/showtimes/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 9, "price": "11.00", "movie": "Dune", "hall": "Hall 1", "start_time": "2026-02-03T19:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	showtime, err := client.CreateShowtime(context.Background(), model.ShowtimeInput{
		MovieId:   1,
		HallId:    2,
		StartTime: start,
		EndTime:   start.Add(155 * time.Minute),
		Price:     1100,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if showtime.Id != 9 {
		t.Fatalf("unexpected showtime: %+v", showtime)
	}
	if got["price"] != "11.00" || got["end_time"] != "2026-02-03T21:35:00Z" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestCreateShowtime_RejectsEndBeforeStart(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	start := time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC)
	_, err := client.CreateShowtime(context.Background(), model.ShowtimeInput{
		MovieId:   1,
		HallId:    2,
		StartTime: start,
		EndTime:   start.Add(-time.Minute),
		Price:     1100,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDeleteMovie_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/movies/3/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	if err := client.DeleteMovie(context.Background(), 3); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestGetStats_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/stats/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"total_reservations": 3, "total_revenue": "37.50", "top_movies": [{"title": "Dune", "tickets": 3}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	stats, err := client.GetStats(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if stats.TotalRevenue != 3750 || len(stats.TopMovies) != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
