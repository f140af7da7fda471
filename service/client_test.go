package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON_Non2xxReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 1

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 3
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/retry", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if ok, _ := out["ok"].(bool); !ok {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestGetJSON_DoesNotRetryOnClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 3
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/bad-request", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestSendJSON_NeverRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.retryBase = time.Millisecond

	err := client.sendJSON(context.Background(), http.MethodPost, server.URL+"/x", map[string]int{"a": 1}, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestAPIError_Detail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail": "Seat 9 is already reserved."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.sendJSON(context.Background(), http.MethodPost, server.URL+"/reservations/", nil, nil, nil)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := Detail(err); got != "Seat 9 is already reserved." {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestErrorDetail_FieldErrors(t *testing.T) {
	got := errorDetail(`{"seat_ids": ["This field is required."]}`)
	if got != "seat_ids: This field is required." {
		t.Fatalf("unexpected detail: %q", got)
	}
	if got := errorDetail("<html>oops</html>"); got != "" {
		t.Fatalf("expected empty detail, got %q", got)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Token expired"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.SetToken("abc")

	_, err := client.GetProfile(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if header != "Bearer abc" {
		t.Fatalf("unexpected authorization header: %q", header)
	}
}

func TestRetryDelay_IsCapped(t *testing.T) {
	client := NewClient("", nil)
	client.retryBase = 100 * time.Millisecond
	client.retryCap = 300 * time.Millisecond

	if got := client.retryDelay(1); got != 100*time.Millisecond {
		t.Fatalf("unexpected first delay: %s", got)
	}
	if got := client.retryDelay(2); got != 200*time.Millisecond {
		t.Fatalf("unexpected second delay: %s", got)
	}
	if got := client.retryDelay(5); got != 300*time.Millisecond {
		t.Fatalf("expected capped delay, got %s", got)
	}
}

func TestSetToken_WhileRequestsRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "username": "ana"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.SetToken("first")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.GetProfile(context.Background()); err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		}()
	}
	client.SetToken("second")
	wg.Wait()

	req, err := client.newRequest(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer second" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
}
