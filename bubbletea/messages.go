package bubbletea

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cashpilot/cockpit"
)

// Every API call runs as a command on its own goroutine and reports back
// through exactly one of the message types below. Messages that belong to
// a single conversation carry its ID so the update loop can discard
// results that arrive after the user has moved on.

// AuthResultMsg reports a login or register round-trip.
type AuthResultMsg struct {
	Register bool
	Session  cockpit.Session
	Err      error
}

// ConversationsMsg reports a conversation list load.
type ConversationsMsg struct {
	List []cockpit.Conversation
	Err  error
}

// ConversationCreatedMsg reports a conversation create. SendText carries
// the message that triggered an implicit create; it is dispatched once
// the conversation exists.
type ConversationCreatedMsg struct {
	Conversation cockpit.Conversation
	SendText     string
	Err          error
}

// ConversationDeletedMsg reports a conversation delete.
type ConversationDeletedMsg struct {
	ID  string
	Err error
}

// MessagesMsg reports a timeline load for one conversation.
type MessagesMsg struct {
	ConversationID string
	Messages       []cockpit.Message
	Err            error
}

// SendResultMsg reports a message send for one conversation.
type SendResultMsg struct {
	ConversationID string
	Reply          cockpit.Message
	Err            error
}

// AuthTickAction identifies which delayed auth transition fired.
type AuthTickAction int

const (
	AuthTickEnterChat AuthTickAction = iota
	AuthTickSuggestRegister
	AuthTickShowWelcome
	AuthTickSuggestLogin
)

// AuthTickMsg fires a delayed auth screen transition. Seq must match the
// auth generation counter at delivery time or the transition is dropped.
type AuthTickMsg struct {
	Seq    int
	Action AuthTickAction
}

func login(client cockpit.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), email, password)
		return AuthResultMsg{Session: sess, Err: err}
	}
}

func register(client cockpit.Client, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		sess, err := client.Register(context.Background(), name, email, password)
		return AuthResultMsg{Register: true, Session: sess, Err: err}
	}
}

func loadConversations(client cockpit.Client) tea.Cmd {
	return func() tea.Msg {
		list, err := client.Conversations(context.Background())
		return ConversationsMsg{List: list, Err: err}
	}
}

func createConversation(client cockpit.Client, title, sendText string) tea.Cmd {
	return func() tea.Msg {
		conv, err := client.CreateConversation(context.Background(), title)
		return ConversationCreatedMsg{Conversation: conv, SendText: sendText, Err: err}
	}
}

func deleteConversation(client cockpit.Client, id string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteConversation(context.Background(), id)
		return ConversationDeletedMsg{ID: id, Err: err}
	}
}

func loadMessages(client cockpit.Client, conversationID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := client.Messages(context.Background(), conversationID)
		return MessagesMsg{ConversationID: conversationID, Messages: msgs, Err: err}
	}
}

func sendMessage(client cockpit.Client, conversationID, content string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.SendMessage(context.Background(), conversationID, content)
		return SendResultMsg{ConversationID: conversationID, Reply: reply, Err: err}
	}
}

func authTick(d time.Duration, seq int, action AuthTickAction) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return AuthTickMsg{Seq: seq, Action: action}
	})
}
