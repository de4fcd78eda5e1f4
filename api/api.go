// Package api implements [cockpit.Client] for the CashPilot REST API.
//
// Every method is a single HTTP round-trip. Server answers with non-2xx
// statuses become [cockpit.APIError] values; transport failures pass
// through as ordinary errors. The client never retries and never
// interprets what the server said.
package api

import (
	"encoding/json"
	"time"

	"github.com/cashpilot/cockpit"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 30 * time.Second

	loginPath         = "/users/login"
	registerPath      = "/users/register"
	profilePath       = "/users/me"
	conversationsPath = "/chat/conversations"
)

// authRequest is the JSON body for login and register calls.
type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the JSON body returned by login and register.
// The refresh token is accepted but not used; an expired access token
// surfaces as a 401 and the user signs in again.
type authResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         userDTO `json:"user"`
}

func (r authResponse) session() cockpit.Session {
	return cockpit.Session{Token: r.AccessToken, User: r.User.domain()}
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u userDTO) domain() cockpit.User {
	return cockpit.User{ID: u.ID, Email: u.Email, Name: u.Name}
}

type conversationDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}

func (c conversationDTO) domain() cockpit.Conversation {
	return cockpit.Conversation{
		ID:           c.ID,
		Title:        c.Title,
		CreatedAt:    parseTimestamp(c.CreatedAt),
		UpdatedAt:    parseTimestamp(c.UpdatedAt),
		MessageCount: c.MessageCount,
	}
}

type messageDTO struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	Timestamp      string `json:"timestamp"`
	AgentType      string `json:"agent_type"`
}

func (m messageDTO) domain() cockpit.Message {
	return cockpit.Message{
		ID:        m.ID,
		Role:      cockpit.Role(m.Role),
		Content:   m.Content,
		AgentType: m.AgentType,
		Timestamp: parseTimestamp(m.Timestamp),
	}
}

type createConversationRequest struct {
	Title string `json:"title"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// errorResponse is the JSON error body. The server returns detail as a
// string for handled errors and as a list of field errors for validation
// failures, so it is decoded in two steps.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

func (e errorResponse) message() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	var fields []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &fields); err == nil && len(fields) > 0 {
		return fields[0].Msg
	}
	return string(e.Detail)
}

// timestampLayouts covers the formats the server has been observed to
// emit: RFC 3339 with offset, and naive datetimes with either a T or a
// space separator, which are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp returns the zero time for anything unparseable; views
// render missing timestamps as blank.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
