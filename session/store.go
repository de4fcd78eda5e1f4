// Package session persists the signed-in user's session across runs.
//
// A session is stored as two slots under the state directory: the bearer
// token and the user profile. The pair is all-or-nothing. Restore returns
// a session only when both slots are present and parseable, and a failed
// Save removes whatever it managed to write, so no reader ever observes
// one slot without the other.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cashpilot/cockpit"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// userEnvelope is the v1 on-disk format for the user slot.
type userEnvelope struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Store reads and writes the two session slots. It is the only component
// that touches them.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Restore reads back the persisted session. It reports false when either
// slot is missing, unparseable, or incomplete. Corrupt state is never an
// error; it means there is no session.
func (s *Store) Restore() (cockpit.Session, bool) {
	token, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return cockpit.Session{}, false
	}
	data, err := os.ReadFile(s.userPath())
	if err != nil {
		return cockpit.Session{}, false
	}
	var env userEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return cockpit.Session{}, false
	}
	if env.Version != 1 {
		return cockpit.Session{}, false
	}
	sess := cockpit.Session{
		Token: strings.TrimSpace(string(token)),
		User:  cockpit.User{ID: env.ID, Email: env.Email, Name: env.Name},
	}
	if !sess.Valid() {
		return cockpit.Session{}, false
	}
	return sess, true
}

// Save persists both slots, user first, token last. A failure removes
// whatever was written; a restore must never see a stale token paired
// with a new user.
func (s *Store) Save(sess cockpit.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("session missing token or user: %w", cockpit.ErrValidation)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(userEnvelope{
		Version: 1,
		ID:      sess.User.ID,
		Email:   sess.User.Email,
		Name:    sess.User.Name,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := writeAtomic(s.userPath(), data); err != nil {
		_ = s.Clear()
		return fmt.Errorf("write user slot: %w", err)
	}
	if err := writeAtomic(s.tokenPath(), []byte(sess.Token+"\n")); err != nil {
		_ = s.Clear()
		return fmt.Errorf("write token slot: %w", err)
	}
	return nil
}

// Clear removes both slots. Missing files are not errors.
func (s *Store) Clear() error {
	if err := os.Remove(s.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token slot: %w", err)
	}
	if err := os.Remove(s.userPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove user slot: %w", err)
	}
	return nil
}

func (s *Store) tokenPath() string { return filepath.Join(s.dir, tokenFile) }
func (s *Store) userPath() string  { return filepath.Join(s.dir, userFile) }

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
