package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"cinema-booking-cli/logger"

	"github.com/go-playground/validator/v10"
)

const (
	defaultBaseURL     = "http://localhost:8000/api"
	defaultUserAgent   = "cinema-booking-cli"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	errorBodyLimit     = 8 << 10
)

// Client wraps HTTP access to the Booking API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	tokenMu     sync.RWMutex
	token       string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
	validate    *validator.Validate
	log         *logger.Logger
	newID       func() string
}

// APIError is returned when the Booking API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
	Detail     string
}

func (e *APIError) Error() string {
	if e == nil {
		return "booking api error"
	}
	if e.Detail != "" {
		return fmt.Sprintf("booking api error: %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("booking api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether the API rejected the credentials (401).
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsConflict reports whether the API refused the request because of a
// conflicting state, e.g. a seat reserved by someone else in the meantime.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// Detail returns the server supplied message of an API error, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
		validate:    validator.New(),
		log:         logger.Nop(),
		newID:       newRequestID,
	}
}

// SetToken sets the bearer token sent with every request. An empty token
// makes requests anonymous.
func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *Client) bearer() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token
}

func (c *Client) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Nop()
	}
	c.log = l.WithComponent("api")
}

func (c *Client) SetUserAgent(ua string) {
	if ua = strings.TrimSpace(ua); ua != "" {
		c.userAgent = ua
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}

func (c *Client) newRequest(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// getJSON performs an idempotent GET, retrying transient failures.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				c.log.Debug("retrying request", "endpoint", endpoint, "attempt", attempt, "error", err)
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			apiErr := readAPIError(res, endpoint)
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				c.log.Debug("retrying request", "endpoint", endpoint, "attempt", attempt, "status", res.StatusCode)
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		return decodeBody(res, endpoint, out)
	}

	return errors.New("request failed after retries")
}

// sendJSON performs a single non-idempotent request. It is never retried:
// a retry is a new user action.
func (c *Client) sendJSON(ctx context.Context, method string, endpoint string, in any, out any, headers map[string]string) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(res, endpoint)
	}
	return decodeBody(res, endpoint, out)
}

func readAPIError(res *http.Response, endpoint string) *APIError {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
	_ = res.Body.Close()
	body := strings.TrimSpace(string(snippet))
	return &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Endpoint:   endpoint,
		Body:       body,
		Detail:     errorDetail(body),
	}
}

// errorDetail extracts the human readable message from the usual error
// envelopes: {"detail": "..."}, {"error": "..."} or {"field": ["..."]}.
func errorDetail(body string) string {
	if body == "" || body[0] != '{' {
		return ""
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		var s string
		if raw, ok := envelope[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	for field, raw := range envelope {
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			return fmt.Sprintf("%s: %s", field, strings.Join(list, " "))
		}
	}
	return ""
}

func decodeBody(res *http.Response, endpoint string, out any) error {
	defer res.Body.Close()
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// getList decodes list endpoints that answer either with a bare JSON array or
// with a paginated {"results": [...]} envelope.
func getList[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return page.Results, nil
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return items, nil
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	limit := c.retryCap
	if limit <= 0 {
		limit = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= limit/2 {
			return limit
		}
		delay *= 2
	}
	if delay > limit {
		return limit
	}
	return delay
}
