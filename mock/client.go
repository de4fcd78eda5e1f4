// Package mock provides test doubles for cockpit interfaces using function fields.
package mock

import (
	"context"

	"github.com/cashpilot/cockpit"
)

// Interface compliance check.
var _ cockpit.Client = (*Client)(nil)

// Client is a test double for cockpit.Client.
// Set the function fields for the methods you need; unset methods return
// zero values. SetToken and ClearToken record the last token by default
// so tests can assert the TUI installed it.
type Client struct {
	LoginFn              func(ctx context.Context, email, password string) (cockpit.Session, error)
	RegisterFn           func(ctx context.Context, name, email, password string) (cockpit.Session, error)
	ConversationsFn      func(ctx context.Context) ([]cockpit.Conversation, error)
	CreateConversationFn func(ctx context.Context, title string) (cockpit.Conversation, error)
	DeleteConversationFn func(ctx context.Context, id string) error
	MessagesFn           func(ctx context.Context, conversationID string) ([]cockpit.Message, error)
	SendMessageFn        func(ctx context.Context, conversationID, content string) (cockpit.Message, error)
	ProfileFn            func(ctx context.Context) (cockpit.User, error)
	SetTokenFn           func(token string)
	ClearTokenFn         func()

	// Token records the last SetToken/ClearToken value when the
	// corresponding function field is unset.
	Token string
}

// Login delegates to LoginFn.
func (c *Client) Login(ctx context.Context, email, password string) (cockpit.Session, error) {
	if c.LoginFn == nil {
		return cockpit.Session{}, nil
	}
	return c.LoginFn(ctx, email, password)
}

// Register delegates to RegisterFn.
func (c *Client) Register(ctx context.Context, name, email, password string) (cockpit.Session, error) {
	if c.RegisterFn == nil {
		return cockpit.Session{}, nil
	}
	return c.RegisterFn(ctx, name, email, password)
}

// Conversations delegates to ConversationsFn.
func (c *Client) Conversations(ctx context.Context) ([]cockpit.Conversation, error) {
	if c.ConversationsFn == nil {
		return nil, nil
	}
	return c.ConversationsFn(ctx)
}

// CreateConversation delegates to CreateConversationFn.
func (c *Client) CreateConversation(ctx context.Context, title string) (cockpit.Conversation, error) {
	if c.CreateConversationFn == nil {
		return cockpit.Conversation{}, nil
	}
	return c.CreateConversationFn(ctx, title)
}

// DeleteConversation delegates to DeleteConversationFn.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	if c.DeleteConversationFn == nil {
		return nil
	}
	return c.DeleteConversationFn(ctx, id)
}

// Messages delegates to MessagesFn.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]cockpit.Message, error) {
	if c.MessagesFn == nil {
		return nil, nil
	}
	return c.MessagesFn(ctx, conversationID)
}

// SendMessage delegates to SendMessageFn.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (cockpit.Message, error) {
	if c.SendMessageFn == nil {
		return cockpit.Message{}, nil
	}
	return c.SendMessageFn(ctx, conversationID, content)
}

// Profile delegates to ProfileFn.
func (c *Client) Profile(ctx context.Context) (cockpit.User, error) {
	if c.ProfileFn == nil {
		return cockpit.User{}, nil
	}
	return c.ProfileFn(ctx)
}

// SetToken delegates to SetTokenFn, or records the token.
func (c *Client) SetToken(token string) {
	if c.SetTokenFn != nil {
		c.SetTokenFn(token)
		return
	}
	c.Token = token
}

// ClearToken delegates to ClearTokenFn, or clears the recorded token.
func (c *Client) ClearToken() {
	if c.ClearTokenFn != nil {
		c.ClearTokenFn()
		return
	}
	c.Token = ""
}
