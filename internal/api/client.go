package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client is a thin HTTP client for the todo REST API. It handles optional
// Bearer token authentication, JSON (de)serialization and request
// throttling. It never retries: every failure goes back to the caller.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets the Bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit throttles outgoing requests to perSec with the given burst.
// A non-positive perSec disables throttling.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		if perSec <= 0 {
			c.rateLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// NewClient creates a new API client. The baseURL is the API root
// (e.g., http://localhost:5000/api); endpoints are appended to it.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the JSON error envelope returned by the backend.
type errorBody struct {
	Error string `json:"error"`
}

// Call performs a request against endpoint (a path relative to the API root,
// optionally with a query string). A non-nil body is sent as JSON; a non-nil
// result receives the decoded JSON response.
//
// It returns *RequestError for non-2xx responses and *NetworkError when no
// response was obtained.
func (c *Client) Call(
	ctx context.Context,
	method string,
	endpoint string,
	body interface{},
	result interface{},
) error {
	err := c.do(ctx, method, endpoint, body, result)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"method":   method,
			"endpoint": endpoint,
		}).Warn("api request failed")
	}
	return err
}

// do builds the request, sends it and decodes the response.
func (c *Client) do(
	ctx context.Context,
	method string,
	endpoint string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return &NetworkError{Method: method, Endpoint: endpoint, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{Method: method, Endpoint: endpoint, Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &RequestError{
			Method:   method,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  msg,
		}
	}

	// No content to parse (e.g. 204 or an empty body).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, endpoint, err)
	}

	return nil
}
