// internal/api/client.go
//
// Shared JSON client for the upstream game platform.
// Responsibilities:
//   - One canonical request helper (method, path, body, decode) instead of
//     the per-endpoint fetch boilerplate the browser client accumulated.
//   - Explicit configuration: base URL, timeout, auth-token provider. No
//     ambient environment reads at call sites.
//   - Uniform error envelope handling: non-2xx bodies carry {"message"};
//     those map to *APIError with the HTTP status attached.
//
// The platform wraps successful payloads in {"data": ...}; Envelope mirrors
// that shape for callers.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TokenProvider supplies the bearer token for a request, or "" for none.
// The default provider reads the token the HTTP layer stashed in the context,
// so the player's own credential is forwarded upstream.
type TokenProvider func(ctx context.Context) string

// Config is the explicit client configuration.
type Config struct {
	BaseURL string        // e.g. http://localhost:4000
	Timeout time.Duration // per-request; defaults to 10s
	Token   TokenProvider // nil means TokenFromContext
}

// Client issues JSON requests against one upstream base URL.
type Client struct {
	base  string
	http  *http.Client
	token TokenProvider
}

// New constructs a Client from cfg.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	token := cfg.Token
	if token == nil {
		token = TokenFromContext
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		http:  &http.Client{Timeout: timeout},
		token: token,
	}
}

// APIError is a non-2xx upstream response: HTTP status plus the parsed (or
// guessed) message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an *APIError with status 404. The legacy
// progress API uses 404 to mean "no data yet", which callers convert to an
// empty value instead of an error.
func IsNotFound(err error) bool {
	ae, ok := err.(*APIError)
	return ok && ae.Status == http.StatusNotFound
}

// Envelope is the platform's success wrapper.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// errEnvelope is the platform's uniform error body.
type errEnvelope struct {
	Message string `json:"message"`
}

// Get issues a GET and decodes the {"data"} payload into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes {"data"} into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e errEnvelope
		msg := http.StatusText(res.StatusCode)
		if err := json.NewDecoder(res.Body).Decode(&e); err == nil && e.Message != "" {
			msg = e.Message
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}

	var env Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response missing data envelope")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// ctxTokenKey is the context key for the forwarded bearer token.
type ctxTokenKey struct{}

// WithToken stashes a bearer token for TokenFromContext to pick up.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the token stored by WithToken, if any.
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(ctxTokenKey{}).(string)
	return tok
}
