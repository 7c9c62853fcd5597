// Package contactrelay forwards contact form submissions to the remote form
// endpoint as JSON.
package contactrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrRejected means the endpoint answered with a non-2xx status.
	ErrRejected = errors.New("contact endpoint rejected submission")
	// ErrTransport means the request never got an answer.
	ErrTransport = errors.New("contact endpoint unreachable")
	// ErrNoEndpoint means no endpoint is configured.
	ErrNoEndpoint = errors.New("contact endpoint not configured")
)

// RejectedError carries the status code of a rejected submission. It
// matches ErrRejected with errors.Is.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrRejected, e.StatusCode)
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// Client posts submissions to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New returns a Client for endpoint.
func New(endpoint string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

type payload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

// Submit sends msg once. A 2xx answer returns the status code and nil;
// anything else returns ErrRejected (as *RejectedError) or ErrTransport.
// There are no retries.
func (c *Client) Submit(ctx context.Context, msg models.ContactMessage) (int, error) {
	if c.endpoint == "" {
		return 0, ErrNoEndpoint
	}

	body, err := json.Marshal(payload{
		Name:    msg.Name,
		Email:   msg.Email,
		Contact: msg.Contact,
		Message: msg.Message,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal contact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("contact relay transport error",
			zap.String("request_id", msg.RequestID),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Info("contact relay rejected",
			zap.String("request_id", msg.RequestID),
			zap.Int("status", resp.StatusCode))
		return resp.StatusCode, &RejectedError{StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}
