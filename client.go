package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError captures a normalized non-2xx API response: a human-readable
// message, the numeric status, and the raw parsed body for callers that
// need detail.
type APIError struct {
	Path    string
	Status  int
	Message string
	Payload map[string]any
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request to %s failed with status %d", e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Metadata returns structured details for logging/telemetry.
func (e *APIError) Metadata() map[string]any {
	if e == nil {
		return nil
	}

	meta := map[string]any{}
	if e.Path != "" {
		meta["path"] = e.Path
	}
	if e.Status != 0 {
		meta["status"] = e.Status
	}
	if len(e.Payload) > 0 {
		meta["payload"] = e.Payload
	}
	return meta
}

// RequestOptions shapes one outbound call. The zero value is a GET with auth
// attached and the single refresh-and-retry pass enabled.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
	// SkipAuth leaves the Authorization header off and opts the call out of
	// the refresh-and-retry policy.
	SkipAuth bool
	// NoRetry disables the refresh-and-retry pass. The executor forces it on
	// the re-issued call so an authorization failure is retried at most once.
	NoRetry bool
}

// Client is the generic request executor: it builds outbound calls, attaches
// the Bearer credential, and applies the refresh-and-retry policy on
// authorization failures.
type Client struct {
	baseURL    string
	tokens     *TokenManager
	httpClient *http.Client
	logger     Logger
}

// NewClient builds a Client rooted at baseURL. All authorized calls share
// the TokenManager so concurrent 401s collapse into one refresh.
func NewClient(baseURL string, tokens *TokenManager) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     defLogger{},
	}
}

func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient overrides the HTTP client used for API calls.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	if client != nil {
		c.httpClient = client
	}
	return c
}

// Get issues an authorized GET.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodGet})
}

// Post issues an authorized POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: body})
}

// Patch issues an authorized PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPatch, Body: body})
}

// Delete issues an authorized DELETE.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodDelete})
}

type responseEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Request executes one logical call and returns the envelope's data field;
// an envelope without data yields nil. On a 401 (auth attached, retry
// allowed) it refreshes once and re-issues the identical call a single
// time; a second authorization failure surfaces as a final error.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, path, opts, body, contentType)
	if err == nil {
		return data, nil
	}

	if opts.SkipAuth || opts.NoRetry || !IsAuthFailure(err) {
		return nil, err
	}

	session, refreshErr := c.tokens.Refresh(ctx)
	if refreshErr != nil || session == nil || session.AccessToken == "" {
		if refreshErr != nil {
			c.logger.Debug("refresh during retry failed: %v", refreshErr)
		}
		return nil, err
	}

	opts.NoRetry = true
	return c.do(ctx, path, opts, body, contentType)
}

// encodeBody serializes object bodies as JSON and passes opaque reader/byte
// bodies through unchanged. Readers are buffered so a retried call re-issues
// the exact same payload.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case io.Reader:
		buffered, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to buffer request body: %w", err)
		}
		return buffered, "", nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return encoded, "application/json", nil
	}
}

func (c *Client) do(ctx context.Context, path string, opts RequestOptions, body []byte, contentType string) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	if !opts.SkipAuth {
		if access := c.tokens.AccessCredential(ctx); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Path:    path,
			Message: fmt.Sprintf("request to %s failed: %v", path, err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Path:    path,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to read response from %s: %v", path, err),
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(path, resp.StatusCode, raw)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &APIError{
			Path:    path,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("malformed response from %s", path),
			Err:     err,
		}
	}

	return envelope.Data, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// newAPIError extracts the best-effort message from an error body.
func newAPIError(path string, status int, raw []byte) *APIError {
	apiErr := &APIError{
		Path:   path,
		Status: status,
	}

	payload := map[string]any{}
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil {
		apiErr.Payload = payload
		for _, key := range []string{"message", "error"} {
			if msg, ok := payload[key].(string); ok && msg != "" {
				apiErr.Message = msg
				break
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request to %s failed with status %d", path, status)
	}

	return apiErr
}
