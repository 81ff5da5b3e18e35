package faults

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// FaultsPath is the chaos API path for fault injection and removal.
	FaultsPath = "/_localstack/chaos/faults"
	// EffectsPath is the chaos API path for network effects (latency).
	EffectsPath = "/_localstack/chaos/effects"
	// HealthPath reports per-service health of the emulator.
	HealthPath = "/_localstack/health"

	// DefaultTimeout bounds every chaos API call. A hung emulator must not
	// hang a cleanup pass, so this is deliberately short.
	DefaultTimeout = 5 * time.Second
)

// Client provides methods for communicating with the emulator's chaos API.
// The zero value is not usable; construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a chaos API client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a chaos API client. The baseURL is the emulator base
// URL (e.g. "http://localhost:4566"), not the faults path.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the emulator base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AddFault injects one fault. The chaos API accepts an array of fault
// specs and responds with the array of active faults; the issued ID is
// taken from the first element. A success status without an ID is treated
// as a malformed response.
func (c *Client) AddFault(ctx context.Context, spec FaultSpec) (Fault, error) {
	body, err := json.Marshal([]FaultSpec{spec})
	if err != nil {
		return Fault{}, fmt.Errorf("failed to encode fault spec: %w", err)
	}

	resp, err := c.post(ctx, FaultsPath, body)
	if err != nil {
		return Fault{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Fault{}, c.parseError(resp)
	}

	var result []Fault
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Fault{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result) == 0 || result[0].ID == "" {
		return Fault{}, fmt.Errorf("chaos API returned no fault ID")
	}
	return result[0], nil
}

// DeleteFault removes one fault by ID. The emulator answers 200 or 204 on
// success; anything else is an error.
func (c *Client) DeleteFault(ctx context.Context, id string) error {
	resp, err := c.delete(ctx, FaultsPath+"/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}
	return nil
}

// ClearFaults removes all active faults at once by posting an empty array.
// This is the bulk-clear fallback used when targeted removal is incomplete.
func (c *Client) ClearFaults(ctx context.Context) error {
	resp, err := c.post(ctx, FaultsPath, []byte("[]"))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// ListFaults returns all currently active faults. Used for diagnostic
// listing only; the lifecycle manager tracks its own fault set.
func (c *Client) ListFaults(ctx context.Context) ([]Fault, error) {
	resp, err := c.get(ctx, FaultsPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result []Fault
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}

// GetEffects returns the current network-effects configuration.
func (c *Client) GetEffects(ctx context.Context) (Effects, error) {
	resp, err := c.get(ctx, EffectsPath)
	if err != nil {
		return Effects{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Effects{}, c.parseError(resp)
	}

	var result Effects
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Effects{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}

// SetEffects replaces the network-effects configuration. Setting a zero
// Effects removes all artificial latency.
func (c *Client) SetEffects(ctx context.Context, effects Effects) error {
	body, err := json.Marshal(effects)
	if err != nil {
		return fmt.Errorf("failed to encode effects: %w", err)
	}

	resp, err := c.post(ctx, EffectsPath, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Health returns the emulator's per-service status map (service name to
// state, e.g. "running" or "available").
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	resp, err := c.get(ctx, HealthPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result struct {
		Services map[string]string `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Services, nil
}

// get performs an HTTP GET request.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil)
}

// post performs an HTTP POST request.
func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, body)
}

// delete performs an HTTP DELETE request.
func (c *Client) delete(ctx context.Context, path string) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodDelete, path, nil)
}

// doRequest performs an HTTP request against the chaos API.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			StatusCode: 0,
			ErrorCode:  "connection_error",
			Message:    fmt.Sprintf("cannot reach chaos API at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

// parseError parses an error response from the chaos API.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  errResp.Error,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  "unknown_error",
		Message:    fmt.Sprintf("chaos API returned status %d: %s", resp.StatusCode, string(body)),
	}
}
