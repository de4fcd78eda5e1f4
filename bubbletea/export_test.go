package bubbletea

import "time"

// SetAuthDelays shrinks the delayed transitions so tests don't sit
// through real seconds. The swap delay stays longer than the welcome
// delay to preserve their ordering.
func SetAuthDelays(m Model, d time.Duration) Model {
	m.delays = authDelays{success: d, nudge: d, welcome: d, swap: 2 * d}
	return m
}

// AuthSeq exposes the auth generation counter so tests can build
// matching and stale tick messages.
func AuthSeq(m Model) int {
	return m.auth.seq
}

// ChatStatus exposes the chat status line text.
func ChatStatus(m Model) string {
	return m.chat.status
}

// InputValue exposes the chat input's current text.
func InputValue(m Model) string {
	return m.chat.input.Value()
}

var (
	DeriveTitle  = deriveTitle
	WindowBounds = windowBounds
)
