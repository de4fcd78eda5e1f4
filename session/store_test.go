package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cashpilot/cockpit"
	"github.com/cashpilot/cockpit/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() cockpit.Session {
	return cockpit.Session{
		Token: "tok-abc123",
		User:  cockpit.User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
	}
}

func TestStore_SaveRestore_RoundTrip(t *testing.T) {
	t.Parallel()
	store := session.NewStore(t.TempDir())

	require.NoError(t, store.Save(testSession()))

	got, ok := store.Restore()
	require.True(t, ok)
	assert.Equal(t, testSession(), got)
}

func TestStore_Restore_EmptyDirIsSignedOut(t *testing.T) {
	t.Parallel()
	store := session.NewStore(t.TempDir())

	_, ok := store.Restore()

	assert.False(t, ok)
}

func TestStore_Restore_MissingDirIsSignedOut(t *testing.T) {
	t.Parallel()
	store := session.NewStore(filepath.Join(t.TempDir(), "does", "not", "exist"))

	_, ok := store.Restore()

	assert.False(t, ok)
}

func TestStore_Restore_TokenWithoutUserIsSignedOut(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("tok\n"), 0o600))

	_, ok := session.NewStore(dir).Restore()

	assert.False(t, ok)
}

func TestStore_Restore_UserWithoutTokenIsSignedOut(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	user := []byte(`{"version":1,"id":"u1","email":"ada@example.com","name":"Ada"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), user, 0o600))

	_, ok := session.NewStore(dir).Restore()

	assert.False(t, ok)
}

func TestStore_Restore_CorruptUserSlotIsSignedOut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user string
	}{
		{"not json", "definitely not json"},
		{"wrong version", `{"version":2,"id":"u1","email":"a@b.c","name":"A"}`},
		{"missing id", `{"version":1,"email":"a@b.c","name":"A"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("tok\n"), 0o600))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(tt.user), 0o600))

			_, ok := session.NewStore(dir).Restore()

			assert.False(t, ok)
		})
	}
}

func TestStore_Restore_BlankTokenIsSignedOut(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("  \n"), 0o600))
	user := []byte(`{"version":1,"id":"u1","email":"ada@example.com","name":"Ada"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), user, 0o600))

	_, ok := session.NewStore(dir).Restore()

	assert.False(t, ok)
}

func TestStore_Save_CreatesStateDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store := session.NewStore(dir)

	require.NoError(t, store.Save(testSession()))

	_, ok := store.Restore()
	assert.True(t, ok)
}

func TestStore_Save_RejectsIncompleteSession(t *testing.T) {
	t.Parallel()
	store := session.NewStore(t.TempDir())

	err := store.Save(cockpit.Session{Token: "tok"})

	assert.ErrorIs(t, err, cockpit.ErrValidation)
	_, ok := store.Restore()
	assert.False(t, ok)
}

func TestStore_Save_OverwritesPreviousSession(t *testing.T) {
	t.Parallel()
	store := session.NewStore(t.TempDir())
	require.NoError(t, store.Save(testSession()))

	next := cockpit.Session{
		Token: "tok-next",
		User:  cockpit.User{ID: "u2", Email: "bob@example.com", Name: "Bob"},
	}
	require.NoError(t, store.Save(next))

	got, ok := store.Restore()
	require.True(t, ok)
	assert.Equal(t, next, got)
}

func TestStore_Clear_RemovesBothSlots(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := session.NewStore(dir)
	require.NoError(t, store.Save(testSession()))

	require.NoError(t, store.Clear())

	_, ok := store.Restore()
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(dir, "token"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "user.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Clear_MissingSlotsAreNotErrors(t *testing.T) {
	t.Parallel()
	store := session.NewStore(t.TempDir())

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())
}
