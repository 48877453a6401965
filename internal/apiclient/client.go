package apiclient

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

	"github.com/MrJamesThe3rd/cashtrack/internal/session"
)

// Kind classifies a request failure.
type Kind int

const (
	// KindApplication is a non-2xx response; Message carries the server's text.
	KindApplication Kind = iota + 1
	// KindConnection is a transport failure: the server was never reached
	// or the exchange broke off.
	KindConnection
	// KindDecode is a 2xx response whose body is not the expected JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindConnection:
		return "connection"
	case KindDecode:
		return "decode"
	}

	return "unknown"
}

const ConnectionMessage = "Network error. Please check your connection."

// Error is returned for every failed request that reached the transport.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// IsConnection reports whether err is a transport-level failure.
func IsConnection(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindConnection
}

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type requestOptions struct {
	token string
}

type RequestOption func(*requestOptions)

// WithToken uses token instead of the client's TokenSource for one request.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) { o.token = token }
}

// Request sends body as JSON and decodes a 2xx response into out. Either may
// be nil.
func (c *Client) Request(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.token(o); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}

		return &Error{Kind: KindConnection, Message: ConnectionMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindConnection, Status: resp.StatusCode, Message: ConnectionMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:    KindApplication,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Kind:    KindDecode,
			Status:  resp.StatusCode,
			Message: "unexpected response from server",
			Err:     err,
		}
	}

	return nil
}

func (c *Client) token(o requestOptions) string {
	token := o.token
	if token == "" && c.tokens != nil {
		token = c.tokens.Token()
	}

	return session.Normalize(token)
}

// errorMessage picks the first of: a string "message" field, a string
// "error" field, the raw body, or "HTTP <status>".
func errorMessage(status int, body []byte) string {
	var fields map[string]any
	if json.Unmarshal(body, &fields) == nil {
		for _, key := range []string{"message", "error"} {
			if msg, ok := fields[key].(string); ok && msg != "" {
				return msg
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return fmt.Sprintf("HTTP %d", status)
}
