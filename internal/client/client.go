// Package client is the Go SDK of the back office API. It attaches the
// session token to every request, turns failed responses into operator
// notifications and validates parameter bags before anything leaves the
// process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/identity"
	"go.uber.org/zap"
)

// APIError is a failed API response
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	Details   []contract.FieldError
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// ValidationErrors returns the server-side field errors, or nil
func (e *APIError) ValidationErrors() *contract.ValidationErrors {
	if len(e.Details) == 0 {
		return nil
	}
	return &contract.ValidationErrors{Errors: e.Details}
}

// envelope is the response body of every endpoint
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string                `json:"code"`
		Message   string                `json:"message"`
		RequestID string                `json:"request_id"`
		Details   []contract.FieldError `json:"details"`
	} `json:"error"`
	Meta *PageMeta `json:"meta"`
}

// PageMeta is the position of a page in a list result
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Client talks to one back office server
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	userAgent string
	state     *StateStore
	validator *contract.Validator
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger

	// expired is set by the first 401 of a session and cleared by Login
	mu      sync.Mutex
	expired bool
}

// Option configures a Client
type Option func(*Client)

// WithNotifier shows notifications through n
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithNavigator routes forced logouts through n
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithHTTPClient replaces the HTTP client; its timeout is kept
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for cfg. state may be nil for a session that only
// lives in memory.
func New(cfg *Config, state *StateStore, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/api/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if state == nil {
		state, _ = OpenState("")
	}
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   base,
		userAgent: cfg.AppName + "/" + cfg.AppVersion,
		state:     state,
		validator: contract.NewValidator(),
		notifier:  nopNotifier{},
		navigator: &staticNavigator{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the state store of the client
func (c *Client) State() *StateStore { return c.state }

// Login signs in and stores the session
func (c *Client) Login(ctx context.Context, username, password string) (*contract.LoginResult, error) {
	params := contract.LoginParams{Username: username, Password: password}
	if err := c.validator.Validate(params); err != nil {
		return nil, err
	}
	var res contract.LoginResult
	if _, err := c.do(ctx, http.MethodPost, "auth/login", params, &res); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			_ = c.state.SetAuthError(apiErr.Message)
		}
		return nil, err
	}
	if err := c.state.SetSession(res.Token, &res.User); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.expired = false
	c.mu.Unlock()
	c.logger.Info("Signed in", zap.String("username", res.User.Username))
	return &res, nil
}

// Logout revokes the token on the server and clears the session. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.state.Token() != "" {
		_, err = c.do(ctx, http.MethodPost, "auth/logout", nil, nil)
	}
	if clearErr := c.state.ClearSession(); clearErr != nil {
		return clearErr
	}
	return err
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*identity.User, error) {
	var u identity.User
	if _, err := c.do(ctx, http.MethodGet, "auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Call runs one mode of a family. params is validated against the mode's
// schema first; a failure is returned as *contract.ValidationErrors and no
// request is sent. out receives the data of the response and may be nil.
func (c *Client) Call(ctx context.Context, family contract.Family, mode contract.Mode, params, out any) (*PageMeta, error) {
	if params == nil {
		params = contract.EmptyParams{}
	}
	if err := c.Preflight(family, mode, params); err != nil {
		return nil, err
	}
	env, err := contract.NewEnvelope(mode, params)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Calling family",
		zap.String("family", string(family)),
		zap.Int("mode", int(mode)))
	return c.do(ctx, http.MethodPost, string(family), env, out)
}

// Preflight checks that params is the bag the mode expects and satisfies
// its schema
func (c *Client) Preflight(family contract.Family, mode contract.Mode, params any) error {
	want, err := contract.NewParams(family, mode)
	if err != nil {
		return err
	}
	wantType := reflect.TypeOf(want).Elem()
	got := reflect.TypeOf(params)
	if got.Kind() == reflect.Pointer {
		got = got.Elem()
	}
	if got != wantType {
		return fmt.Errorf("%s mode %d expects %s, got %s", family, mode, wantType.Name(), got.Name())
	}
	return c.validator.Validate(params)
}

// Download fetches a file from an export endpoint
func (c *Client) Download(ctx context.Context, path string, query url.Values) (name string, content []byte, err error) {
	u, err := c.resolve(path)
	if err != nil {
		return "", nil, err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", nil, c.fail(req, resp.StatusCode, body)
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return name, body, nil
}

// do sends a JSON request and decodes the envelope
func (c *Client) do(ctx context.Context, method, path string, body, out any) (*PageMeta, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.fail(req, resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return env.Meta, nil
}

// send attaches the bearer token and runs the request
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if token := c.state.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		c.notifier.Notify(Notification{Level: LevelError, Message: msgNetwork})
		return nil, err
	}
	return resp, nil
}

// fail turns an error response into an *APIError, notifies the operator and
// ends the session on 401. A rejected sign-in is not an expired session.
func (c *Client) fail(req *http.Request, status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	var env envelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.RequestID = env.Error.RequestID
		apiErr.Details = env.Error.Details
	}
	c.logger.Debug("API error",
		zap.Int("status", status),
		zap.String("code", apiErr.Code),
		zap.String("request_id", apiErr.RequestID))

	if status == http.StatusUnauthorized && !strings.HasSuffix(req.URL.Path, "/auth/login") {
		c.expire()
		return apiErr
	}
	if status == http.StatusUnauthorized {
		c.notifier.Notify(Notification{Level: LevelWarning, Message: apiErr.Message})
		return apiErr
	}
	c.notifier.Notify(notificationFor(apiErr))
	return apiErr
}

// expire clears the session and sends the operator to the login screen.
// Only the first 401 of a session notifies and navigates.
func (c *Client) expire() {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.mu.Unlock()

	if err := c.state.ClearSession(); err != nil {
		c.logger.Warn("Failed to clear session", zap.Error(err))
	}
	c.notifier.Notify(Notification{Level: LevelWarning, Message: msgSessionExpired})
	if c.navigator.Location() != LoginPath {
		c.navigator.Navigate(LoginPath)
	}
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}
