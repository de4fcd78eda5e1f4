package bubbletea_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/cashpilot/cockpit"
	bt "github.com/cashpilot/cockpit/bubbletea"
	"github.com/cashpilot/cockpit/session"
)

// newModel builds a model over the given store, shrinks the auth delays
// and sends a WindowSizeMsg to initialize the layout.
func newModel(t *testing.T, client cockpit.Client, store *session.Store) bt.Model {
	t.Helper()
	m := bt.New(client, store, cockpit.DefaultTheme())
	m = bt.SetAuthDelays(m, 5*time.Millisecond)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

// initModel creates a model with an empty store, starting on the auth screen.
func initModel(t *testing.T, client cockpit.Client) bt.Model {
	t.Helper()
	return newModel(t, client, session.NewStore(t.TempDir()))
}

// seededStore returns a store holding a persisted session.
func seededStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(t.TempDir())
	err := store.Save(cockpit.Session{
		Token: "tok-1",
		User:  cockpit.User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
	})
	require.NoError(t, err)
	return store
}

// initChat creates a model with a persisted session, starting on the chat screen.
func initChat(t *testing.T, client cockpit.Client) bt.Model {
	t.Helper()
	return newModel(t, client, seededStore(t))
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModelCmd sends a message and returns the updated Model along with
// the command it produced.
func updateModelCmd(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// typeString feeds s into the model as a rune key press.
func typeString(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// keyPress sends a single special key.
func keyPress(t *testing.T, m bt.Model, k tea.KeyType) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: k})
}

// runCmds executes cmd and feeds the API result and transition messages
// it produces back into the model, following batches, until none remain.
// Widget messages (cursor blinks, spinner frames) are dropped so the loop
// terminates.
func runCmds(t *testing.T, m bt.Model, cmd tea.Cmd) bt.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case bt.AuthResultMsg, bt.AuthTickMsg, bt.ConversationsMsg,
			bt.ConversationCreatedMsg, bt.ConversationDeletedMsg,
			bt.MessagesMsg, bt.SendResultMsg:
			var next tea.Cmd
			m, next = updateModelCmd(t, m, msg)
			if next != nil {
				queue = append(queue, next)
			}
		}
	}
	return m
}
