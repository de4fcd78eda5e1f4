package cockpit

import "time"

// Conversation summarizes one conversation as reported by the server.
// Summaries are never patched locally; the registry replaces its whole
// sequence on every reload.
type Conversation struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// Registry holds the ordered conversation list and the current selection.
//
// Invariants:
//   - the order is exactly the server's order, most recently updated first
//   - a non-empty selection always refers to an id present in the list
//
// Registry is not safe for concurrent use. The TUI mutates it only from
// its update loop.
type Registry struct {
	conversations []Conversation
	selectedID    string
}

// Conversations returns the current sequence in server order.
func (r *Registry) Conversations() []Conversation { return r.conversations }

// Len returns the number of conversations.
func (r *Registry) Len() int { return len(r.conversations) }

// SelectedID returns the id of the selected conversation, or "" when
// nothing is selected.
func (r *Registry) SelectedID() string { return r.selectedID }

// Selected returns the selected conversation, if any.
func (r *Registry) Selected() (Conversation, bool) {
	if i := r.find(r.selectedID); i >= 0 {
		return r.conversations[i], true
	}
	return Conversation{}, false
}

// Replace swaps in a freshly loaded sequence. A selection that still
// exists in the new sequence is kept. Otherwise the first conversation is
// selected, or the selection cleared when the sequence is empty. It
// reports whether the selection changed, which tells the caller to reload
// the timeline.
func (r *Registry) Replace(list []Conversation) bool {
	prev := r.selectedID
	r.conversations = list
	if r.find(prev) < 0 {
		if len(list) > 0 {
			r.selectedID = list[0].ID
		} else {
			r.selectedID = ""
		}
	}
	return r.selectedID != prev
}

// Insert places a newly created conversation at the head of the sequence
// and selects it.
func (r *Registry) Insert(c Conversation) {
	r.conversations = append([]Conversation{c}, r.conversations...)
	r.selectedID = c.ID
}

// Select marks the conversation with the given id as selected. Selecting
// an id not present in the sequence leaves the selection unchanged and
// reports false. Re-selecting the current id reports true; callers decide
// whether to treat that as a reload.
func (r *Registry) Select(id string) bool {
	if r.find(id) < 0 {
		return false
	}
	r.selectedID = id
	return true
}

// SelectOffset moves the selection delta entries relative to the current
// one, clamped to the sequence bounds. With nothing selected it selects
// the first entry. It reports whether the selection changed.
func (r *Registry) SelectOffset(delta int) bool {
	if len(r.conversations) == 0 {
		return false
	}
	next := 0
	if i := r.find(r.selectedID); i >= 0 {
		next = i + delta
		if next < 0 {
			next = 0
		}
		if next > len(r.conversations)-1 {
			next = len(r.conversations) - 1
		}
	}
	if r.conversations[next].ID == r.selectedID {
		return false
	}
	r.selectedID = r.conversations[next].ID
	return true
}

// Clear drops the sequence and the selection.
func (r *Registry) Clear() {
	r.conversations = nil
	r.selectedID = ""
}

func (r *Registry) find(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range r.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}
