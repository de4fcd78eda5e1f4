package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cashpilot/cockpit"
)

// Interface compliance check.
var _ cockpit.Client = (*Client)(nil)

// Client implements [cockpit.Client] over HTTP.
//
// The bearer token is guarded by a mutex: the TUI installs and clears it
// from its update loop while command goroutines issue requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client. The caller owns its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. A request that exceeds it fails like
// any other transport error, so no in-flight state is held forever.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken installs the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (cockpit.Session, error) {
	var out authResponse
	in := authRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, loginPath, in, &out, false); err != nil {
		return cockpit.Session{}, fmt.Errorf("login: %w", err)
	}
	return out.session(), nil
}

// Register creates an account and returns the resulting session.
func (c *Client) Register(ctx context.Context, name, email, password string) (cockpit.Session, error) {
	var out authResponse
	in := authRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, registerPath, in, &out, false); err != nil {
		return cockpit.Session{}, fmt.Errorf("register: %w", err)
	}
	return out.session(), nil
}

// Conversations lists the user's conversations, most recently updated first.
func (c *Client) Conversations(ctx context.Context) ([]cockpit.Conversation, error) {
	var out []conversationDTO
	if err := c.do(ctx, http.MethodGet, conversationsPath, nil, &out, true); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	list := make([]cockpit.Conversation, len(out))
	for i, dto := range out {
		list[i] = dto.domain()
	}
	return list, nil
}

// CreateConversation creates a conversation with the given title.
func (c *Client) CreateConversation(ctx context.Context, title string) (cockpit.Conversation, error) {
	var out conversationDTO
	in := createConversationRequest{Title: title}
	if err := c.do(ctx, http.MethodPost, conversationsPath, in, &out, true); err != nil {
		return cockpit.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return out.domain(), nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	path := conversationsPath + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, true); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// Messages returns a conversation's messages in chronological order.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]cockpit.Message, error) {
	path := conversationsPath + "/" + url.PathEscape(conversationID) + "/messages"
	var out []messageDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs := make([]cockpit.Message, len(out))
	for i, dto := range out {
		msgs[i] = dto.domain()
	}
	return msgs, nil
}

// SendMessage posts a user message and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (cockpit.Message, error) {
	path := conversationsPath + "/" + url.PathEscape(conversationID) + "/messages"
	var out messageDTO
	in := sendMessageRequest{Content: content}
	if err := c.do(ctx, http.MethodPost, path, in, &out, true); err != nil {
		return cockpit.Message{}, fmt.Errorf("send message: %w", err)
	}
	return out.domain(), nil
}

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (cockpit.User, error) {
	var out userDTO
	if err := c.do(ctx, http.MethodGet, profilePath, nil, &out, true); err != nil {
		return cockpit.User{}, fmt.Errorf("profile: %w", err)
	}
	return out.domain(), nil
}

// do runs one round-trip: marshal in (when non-nil), attach headers and
// the bearer token (when authed), execute, and decode a 2xx body into out
// (when non-nil). Non-2xx statuses come back as *cockpit.APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return cockpit.ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return parseHTTPError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &cockpit.APIError{StatusCode: resp.StatusCode}
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if msg := er.message(); msg != "" {
			return &cockpit.APIError{StatusCode: resp.StatusCode, Code: er.Code, Message: msg}
		}
	}
	return &cockpit.APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
