package bubbletea

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cashpilot/cockpit"
	"github.com/cashpilot/cockpit/session"
)

var _ tea.Model = Model{}

// Screen identifies the active top-level screen.
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenChat
)

// Model is the Bubble Tea model for the cockpit TUI. It owns the switch
// between the auth and chat screens; all state transitions run on the
// single update goroutine, so no locking is needed anywhere in this
// package.
type Model struct {
	client cockpit.Client
	store  *session.Store
	theme  cockpit.Theme
	styles Styles
	logger *zap.Logger
	delays authDelays

	screen Screen
	auth   authState
	chat   chatState

	width  int
	height int
	ready  bool
}

// Option is a functional option for configuring the Model.
type Option func(*Model)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// New creates a TUI model backed by the given API client and session
// store. A session restored from the store signs the user straight in to
// the chat screen.
func New(client cockpit.Client, store *session.Store, theme cockpit.Theme, opts ...Option) Model {
	m := Model{
		client: client,
		store:  store,
		theme:  theme,
		styles: NewStyles(theme),
		logger: zap.NewNop(),
		delays: defaultAuthDelays(),
		screen: ScreenAuth,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.auth = newAuthState()
	m.chat = newChatState(m.styles)

	if sess, ok := store.Restore(); ok {
		client.SetToken(sess.Token)
		m.chat.user = sess.User
		m.screen = ScreenChat
		m.logger.Info("session restored", zap.String("user_id", sess.User.ID))
	}
	return m
}

// ActiveScreen returns the screen currently shown.
func (m Model) ActiveScreen() Screen {
	return m.screen
}

// User returns the signed-in user. It is the zero value until a session
// is established.
func (m Model) User() cockpit.User {
	return m.chat.user
}

// Conversations returns the conversation list as currently known.
func (m Model) Conversations() []cockpit.Conversation {
	return m.chat.registry.Conversations()
}

// SelectedConversationID returns the active conversation ID, or "".
func (m Model) SelectedConversationID() string {
	return m.chat.registry.SelectedID()
}

// Messages returns the timeline of the active conversation.
func (m Model) Messages() []cockpit.Message {
	return m.chat.timeline.Messages()
}

// Sending reports whether a send or an implicit conversation create is
// in flight.
func (m Model) Sending() bool {
	return m.chat.timeline.Sending() || m.chat.creating
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.screen == ScreenChat {
		cmds = append(cmds, loadConversations(m.client))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == ScreenChat && msg.Type == tea.KeyCtrlX {
			return m.signOut()
		}

	case AuthResultMsg, AuthTickMsg:
		return m.updateAuth(msg)

	case ConversationsMsg, ConversationCreatedMsg, ConversationDeletedMsg,
		MessagesMsg, SendResultMsg, spinner.TickMsg:
		// A result settling after sign-out must not repopulate the
		// cleared chat state.
		if m.screen != ScreenChat {
			return m, nil
		}
		return m.updateChat(msg)
	}

	if m.screen == ScreenAuth {
		return m.updateAuth(msg)
	}
	return m.updateChat(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.screen == ScreenAuth {
		return m.viewAuth()
	}
	return m.viewChat()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m = m.resizeChat(msg.Width, msg.Height)
	return m
}

// signOut clears the persisted session and returns the user to the login
// screen. Bumping the auth generation drops any transition still pending
// from a previous visit to the auth screen.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clear session", zap.Error(err))
	}
	m.client.ClearToken()
	m.logger.Info("signed out", zap.String("user_id", m.chat.user.ID))
	m = m.resetChat()
	m = m.resetAuth()
	m.screen = ScreenAuth
	return m, textinput.Blink
}

const connectionErrorText = "Connection error. Is the server reachable?"

// errorText renders an error for the status line. Server-reported errors
// show the server's message; anything else is a transport failure and
// gets a fixed line so raw dial errors never reach the user.
func errorText(err error) string {
	var apiErr *cockpit.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Request failed with status %d.", apiErr.StatusCode)
	}
	return connectionErrorText
}
