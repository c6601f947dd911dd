package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/me/folio/internal/logging"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// TokenStore is the durable home of the bearer token.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
}

// Navigator sends the user to the login entry point.
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

// RedirectToLogin calls f.
func (f NavigatorFunc) RedirectToLogin() { f() }

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.Component(logger, "apiclient")
		}
	}
}

// WithNavigator sets what happens when the session ends on a 401.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// Client talks JSON to the portfolio API.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     TokenStore
	nav        Navigator
	logger     *slog.Logger

	// sessionEnded latches the first 401 so the token is cleared and the
	// redirect issued once. SetToken re-arms it.
	sessionEnded atomic.Bool
}

// New creates a Client. tokens may be nil for anonymous use.
func New(config Config, tokens TokenStore, opts ...Option) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if tokens == nil {
		tokens = &memoryTokens{}
	}
	c := &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config.WithBaseURL(config.BaseURL),
		tokens:     tokens,
		logger:     logging.Component(logging.Discard(), "apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.tokens.Token()
}

// SetToken persists a freshly issued token and re-arms the 401 handling.
func (c *Client) SetToken(token string) error {
	if err := c.tokens.SetToken(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	c.sessionEnded.Store(false)
	return nil
}

// Logout clears the token without redirecting.
func (c *Client) Logout() error {
	if err := c.tokens.ClearToken(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil.
	Body any

	// Anonymous requests carry no token and a 401 does not end the
	// session. Login uses this.
	Anonymous bool
}

// Do sends r and decodes a 2xx JSON body into out (which may be nil).
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	var body io.Reader
	contentType := ""
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("%s %s: marshal request: %w", r.Method, r.Path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, r.Method, r.Path, r.Query, body, contentType, r.Anonymous, out)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Upload POSTs r as a single multipart file field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(filename)))
	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("POST %s: create form part: %w", path, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("POST %s: read upload: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("POST %s: close form: %w", path, err)
	}
	return c.send(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), false, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, anonymous bool, out any) error {
	op := method + " " + path
	target := c.config.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !anonymous {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	c.logger.Debug("HTTP request", "method", method, "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("HTTP request failed", "method", method, "url", target, "error", err)
		return &Error{Op: op, Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}

	c.logger.Debug("HTTP response", "method", method, "url", target,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newStatusError(op, resp.StatusCode, bodyMessage(data))
		if apiErr.Kind == KindUnauthorized && !anonymous {
			c.endSession(op)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Kind: KindDecode, Message: MsgDecode, Err: err}
	}
	return nil
}

// endSession clears the token and redirects, once per session.
func (c *Client) endSession(op string) {
	if !c.sessionEnded.CompareAndSwap(false, true) {
		c.logger.Debug("unauthorized after session end", "op", op)
		return
	}
	if err := c.tokens.ClearToken(); err != nil {
		c.logger.Warn("clear token", "error", err)
	}
	c.logger.Info("unauthorized, session cleared", "op", op)
	if c.nav != nil {
		c.nav.RedirectToLogin()
	}
}

// bodyMessage extracts the "message" field of a JSON error body.
func bodyMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Message
}

type memoryTokens struct {
	tok atomic.Value
}

func (m *memoryTokens) Token() string {
	s, _ := m.tok.Load().(string)
	return s
}

func (m *memoryTokens) SetToken(token string) error {
	m.tok.Store(token)
	return nil
}

func (m *memoryTokens) ClearToken() error {
	m.tok.Store("")
	return nil
}
