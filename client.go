package cockpit

import "context"

// Client is the gateway to the CashPilot API server. Implementations
// translate these calls into single HTTP round-trips: they attach the
// bearer token where required, never retry, never cache, and never
// reinterpret what the server said.
//
// Errors come in two flavors. When the server answered with a non-2xx
// status the error is an *APIError carrying the status and the parsed
// detail. Everything else (DNS failures, refused connections, timeouts)
// is an ordinary error. Callers discriminate with errors.As.
type Client interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (Session, error)

	// Register creates an account and returns the resulting session.
	Register(ctx context.Context, name, email, password string) (Session, error)

	// Conversations lists the user's conversations, most recently
	// updated first.
	Conversations(ctx context.Context) ([]Conversation, error)

	// CreateConversation creates a conversation with the given title.
	CreateConversation(ctx context.Context, title string) (Conversation, error)

	// DeleteConversation removes a conversation and its messages.
	DeleteConversation(ctx context.Context, id string) error

	// Messages returns a conversation's messages in chronological order.
	Messages(ctx context.Context, conversationID string) ([]Message, error)

	// SendMessage posts a user message and returns the assistant's reply.
	SendMessage(ctx context.Context, conversationID, content string) (Message, error)

	// Profile returns the signed-in user's profile.
	Profile(ctx context.Context) (User, error)

	// SetToken installs the bearer token used for authenticated calls.
	SetToken(token string)

	// ClearToken removes the bearer token.
	ClearToken()
}
