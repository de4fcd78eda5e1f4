package cockpit

import (
	"time"

	"github.com/google/uuid"
)

// Timeline holds the message sequence for the selected conversation and
// the send in-flight flag. At most one send is outstanding at a time.
//
// Results of asynchronous loads and sends arrive tagged with the id of
// the conversation they were issued for; the timeline discards anything
// tagged for a conversation it is no longer bound to.
//
// Timeline is not safe for concurrent use. The TUI mutates it only from
// its update loop.
type Timeline struct {
	conversationID string
	messages       []Message
	sending        bool
}

// Reset clears the timeline and binds it to a conversation. The in-flight
// flag is cleared; late results for the previous conversation fail the id
// checks below and are discarded.
func (t *Timeline) Reset(conversationID string) {
	t.conversationID = conversationID
	t.messages = nil
	t.sending = false
}

// ConversationID returns the id the timeline is bound to, or "" when no
// conversation is selected.
func (t *Timeline) ConversationID() string { return t.conversationID }

// Messages returns the current sequence in chronological order.
func (t *Timeline) Messages() []Message { return t.messages }

// Len returns the number of messages.
func (t *Timeline) Len() int { return len(t.messages) }

// Apply replaces the whole sequence with a load result. The result is
// discarded, and false returned, when it was loaded for a conversation
// the timeline is no longer bound to.
func (t *Timeline) Apply(conversationID string, msgs []Message) bool {
	if conversationID == "" || conversationID != t.conversationID {
		return false
	}
	t.messages = msgs
	return true
}

// AppendLocal adds an optimistic user message before its round-trip
// settles. The entry gets a client-generated id and timestamp and stays
// in the timeline even if the send later fails.
func (t *Timeline) AppendLocal(content string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
		Local:     true,
	}
	t.messages = append(t.messages, msg)
	return msg
}

// Append adds a server-confirmed message. It is discarded, and false
// returned, when tagged for a conversation the timeline is no longer
// bound to.
func (t *Timeline) Append(conversationID string, msg Message) bool {
	if conversationID == "" || conversationID != t.conversationID {
		return false
	}
	t.messages = append(t.messages, msg)
	return true
}

// Sending reports whether a send is in flight.
func (t *Timeline) Sending() bool { return t.sending }

// BeginSend sets the in-flight flag. It reports false when a send is
// already outstanding; callers must not start another one.
func (t *Timeline) BeginSend() bool {
	if t.sending {
		return false
	}
	t.sending = true
	return true
}

// EndSend clears the in-flight flag, but only when the settled send
// belongs to the conversation the timeline is still bound to. A send
// settling after the user switched away must not release a flag that a
// newer conversation's send may hold.
func (t *Timeline) EndSend(conversationID string) bool {
	if conversationID != t.conversationID {
		return false
	}
	t.sending = false
	return true
}
