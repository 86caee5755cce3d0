package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"movie-chat/internal/logging"
)

var (
	ErrNoEndpoints        = errors.New("no endpoints configured")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrAllEndpointsFailed = errors.New("all endpoints failed")
	ErrUnexpectedStatus   = errors.New("unexpected status")
	ErrInvalidResponse    = errors.New("response is not valid JSON")
)

// Endpoint is one strategy for turning a user message into a reply.
type Endpoint interface {
	Name() string
	Generate(ctx context.Context, text string) (string, error)
}

// EndpointError is the typed failure of a single endpoint attempt.
type EndpointError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *EndpointError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("endpoint %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("endpoint %s: %v", e.Endpoint, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}

// Reply is the outcome of a successful exchange.
type Reply struct {
	Text     string
	Endpoint string
}

// Client consults its endpoints in order and returns the first success.
type Client struct {
	endpoints []Endpoint
}

func NewClient(endpoints ...Endpoint) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	return &Client{endpoints: endpoints}, nil
}

func (c *Client) Endpoints() []string {
	names := make([]string, len(c.endpoints))
	for i, ep := range c.endpoints {
		names[i] = ep.Name()
	}
	return names
}

// Exchange makes a single attempt per endpoint. When every endpoint fails the
// returned error matches ErrAllEndpointsFailed and wraps each EndpointError.
func (c *Client) Exchange(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	failures := make([]error, 0, len(c.endpoints))
	for i, ep := range c.endpoints {
		start := time.Now()
		reply, err := ep.Generate(ctx, text)
		if err == nil {
			logging.Info("Endpoint %s replied in %s (%d chars)", ep.Name(), time.Since(start).Round(time.Millisecond), len(reply))
			return Reply{Text: reply, Endpoint: ep.Name()}, nil
		}

		epErr := asEndpointError(ep.Name(), err)
		failures = append(failures, epErr)

		if i < len(c.endpoints)-1 {
			logging.Info("Endpoint %s unavailable, falling back: %v", ep.Name(), epErr)
		} else {
			logging.Error("Endpoint %s failed: %v", ep.Name(), epErr)
		}
	}

	return Reply{}, fmt.Errorf("%w: %w", ErrAllEndpointsFailed, errors.Join(failures...))
}

func asEndpointError(name string, err error) *EndpointError {
	var epErr *EndpointError
	if errors.As(err, &epErr) {
		return epErr
	}
	return &EndpointError{Endpoint: name, Err: err}
}

// NewHTTPClient returns the client shared by the JSON endpoints.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Minute,
	}
}

// postJSON sends body to url and returns the raw response body. Any non-2xx
// status, transport failure or non-JSON body is an EndpointError.
func postJSON(ctx context.Context, httpClient *http.Client, name, url string, body interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, &EndpointError{Endpoint: name, Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &EndpointError{Endpoint: name, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &EndpointError{Endpoint: name, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &EndpointError{Endpoint: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &EndpointError{
			Endpoint:   name,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, truncate(string(data), 200)),
		}
	}

	if !gjson.ValidBytes(data) {
		return nil, &EndpointError{Endpoint: name, StatusCode: resp.StatusCode, Err: ErrInvalidResponse}
	}

	return data, nil
}

// stringField returns the named top-level string field, or fallback when it
// is absent or not a string.
func stringField(data []byte, field, fallback string) string {
	result := gjson.GetBytes(data, field)
	if result.Type != gjson.String {
		return fallback
	}
	return result.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
