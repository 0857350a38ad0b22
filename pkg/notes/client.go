package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/vango-dev/notes/pkg/telemetry"
)

// RequestIDHeader carries a per-request ID for correlating client and
// server logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is a Source backed by the notes HTTP API. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu    sync.RWMutex
	token string
}

var _ Source = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithToken sets the bearer token.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithRateLimit limits requests to r per second with the given burst.
// A zero r disables limiting.
func WithRateLimit(r float64, burst int) ClientOption {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records request metrics.
func WithMetrics(m *telemetry.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the API rooted at baseURL, for example
// http://localhost:8000/api.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: trimSlash(baseURL),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token. An empty token sends no
// Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ListNotes returns every note.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var out []Note
	if err := c.do(ctx, "list", http.MethodGet, "/notes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNote returns one note.
func (c *Client) GetNote(ctx context.Context, id int64) (*Note, error) {
	var out Note
	path := "/notes/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateNote validates in and creates the note. Invalid input is reported
// as a *ValidationError without a request.
func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out struct {
		Message string `json:"message"`
		Note    Note   `json:"note"`
	}
	if err := c.do(ctx, "create", http.MethodPost, "/notes", in, &out); err != nil {
		return nil, err
	}
	return &out.Note, nil
}

// do sends one request and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, span := telemetry.StartSpan(ctx, "notes."+op,
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("request.id", requestID),
	)
	status := 0
	defer func() {
		label := "error"
		if status != 0 {
			label = strconv.Itoa(status)
		}
		d := time.Since(start)
		c.metrics.Request(op, label, d)
		c.logger.DebugContext(ctx, "notes api request",
			"op", op,
			"method", method,
			"path", path,
			"status", status,
			"request_id", requestID,
			"duration", d,
			"error", err,
		)
		telemetry.EndSpan(span, err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("notes: %s: rate limit: %w", op, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notes: %s: encode: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notes: %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notes: %s: %w", op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if status < 200 || status > 299 {
		return decodeError(op, resp)
	}
	if out == nil || status == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notes: %s: decode: %w", op, err)
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode == http.StatusUnprocessableEntity {
		ve := &ValidationError{}
		if err := json.Unmarshal(data, ve); err == nil {
			return ve
		}
	}

	apiErr := &APIError{Op: op, Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
