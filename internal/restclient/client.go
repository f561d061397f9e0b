// Package restclient is the storefront's HTTP transport to the marketplace
// API. It injects the bearer token, maps error envelopes to typed errors,
// and normalizes the two list shapes the API answers with.
package restclient

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

	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

// Transport-level error values.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// APIError is a structured error the marketplace API returned.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error renders the status, code, and message.
func (apiError *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s: %s", apiError.StatusCode, apiError.Code, apiError.Message)
}

// TokenSource supplies the current bearer token, empty when logged out.
// session.Manager satisfies this.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client talks to the marketplace API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	logger         *zap.Logger
}

// Option configures a Client instance.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		if httpClient != nil {
			client.httpClient = httpClient
		}
	}
}

// WithTokenSource wires the bearer-token supplier.
func WithTokenSource(tokens TokenSource) Option {
	return func(client *Client) {
		client.tokens = tokens
	}
}

// WithOnUnauthorized registers a callback invoked whenever the API answers
// 401. The session layer uses it to evict a credential the server no longer
// honors.
func WithOnUnauthorized(callback func(ctx context.Context)) Option {
	return func(client *Client) {
		client.onUnauthorized = callback
	}
}

// WithLogger wires a zap logger for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// New returns a Client for the given base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("restclient: base URL is required")
	}
	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		if option != nil {
			option(client)
		}
	}
	return client, nil
}

// do executes one request and returns the raw response body. Status codes
// of 400 and above are mapped to errors before the body reaches a decoder.
func (client *Client) do(ctx context.Context, method string, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if client.tokens != nil {
		if token := client.tokens.Token(ctx); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return nil, client.statusError(ctx, method, path, response.StatusCode, raw)
	}
	return raw, nil
}

// doJSON executes a request and decodes the response body into out.
func (client *Client) doJSON(ctx context.Context, method string, path string, payload any, out any) error {
	raw, err := client.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doList executes a request and decodes a list body that may arrive either
// bare or wrapped in an envelope.
func (client *Client) doList(ctx context.Context, path string, out any) error {
	raw, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return normalizeList(raw, out)
}

func (client *Client) statusError(ctx context.Context, method string, path string, status int, raw []byte) error {
	apiError := &APIError{StatusCode: status, Code: "unknown", Message: http.StatusText(status)}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Code != "" {
		apiError.Code = envelope.Error.Code
		apiError.Message = envelope.Error.Message
	}
	client.logger.Warn("request rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("code", apiError.Code))

	switch status {
	case http.StatusUnauthorized:
		if client.onUnauthorized != nil {
			client.onUnauthorized(ctx)
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiError.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, apiError.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiError.Message)
	default:
		return apiError
	}
}
