package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) (*memoryStore, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &memoryStore{
		appName:  "test_app",
		ttl:      ttl,
		sessions: make(map[string]*record),
		now:      func() time.Time { return now },
	}
	return store, &now
}

func TestGetOrCreate_NewSession(t *testing.T) {
	store, _ := newTestStore(0)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	info, ok := store.Describe(t.Context(), "alice", id)
	require.True(t, ok)
	assert.Equal(t, "alice", info.UserID)
	assert.Equal(t, "test_app", info.AppName)
	assert.Equal(t, 0, info.EventCount)
}

func TestGetOrCreate_ReusesExisting(t *testing.T) {
	store, _ := newTestStore(0)

	first, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	second, err := store.GetOrCreate(t.Context(), "alice", first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreate_UnknownIDGetsFreshSession(t *testing.T) {
	store, _ := newTestStore(0)

	id, err := store.GetOrCreate(t.Context(), "alice", "no-such-session")
	require.NoError(t, err)
	assert.NotEqual(t, "no-such-session", id)
}

func TestGetOrCreate_OtherUsersSessionNotShared(t *testing.T) {
	store, _ := newTestStore(0)

	alice, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	bob, err := store.GetOrCreate(t.Context(), "bob", alice)
	require.NoError(t, err)
	assert.NotEqual(t, alice, bob)
}

func TestTouch_BumpsActivity(t *testing.T) {
	store, now := newTestStore(0)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	*now = now.Add(5 * time.Minute)
	store.Touch(t.Context(), id)
	store.Touch(t.Context(), id)

	info, ok := store.Describe(t.Context(), "alice", id)
	require.True(t, ok)
	assert.Equal(t, 2, info.EventCount)
	assert.Equal(t, *now, info.LastActive)
}

func TestDelete_OtherUserCannotDeleteOrDescribe(t *testing.T) {
	store, _ := newTestStore(0)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	_, ok := store.Describe(t.Context(), "bob", id)
	assert.False(t, ok)
	assert.False(t, store.Delete(t.Context(), "bob", id))

	// Still intact for its owner.
	_, ok = store.Describe(t.Context(), "alice", id)
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(0)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	assert.True(t, store.Delete(t.Context(), "alice", id))
	assert.False(t, store.Delete(t.Context(), "alice", id))

	_, ok := store.Describe(t.Context(), "alice", id)
	assert.False(t, ok)
}

func TestExpiry_IdleSessionEvicted(t *testing.T) {
	store, now := newTestStore(time.Hour)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)

	_, ok := store.Describe(t.Context(), "alice", id)
	assert.False(t, ok)
}

func TestExpiry_TouchExtendsLifetime(t *testing.T) {
	store, now := newTestStore(time.Hour)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	*now = now.Add(45 * time.Minute)
	store.Touch(t.Context(), id)
	*now = now.Add(45 * time.Minute)

	_, ok := store.Describe(t.Context(), "alice", id)
	assert.True(t, ok)
}

func TestExpiry_ExpiredIDYieldsFreshSession(t *testing.T) {
	store, now := newTestStore(time.Hour)

	id, err := store.GetOrCreate(t.Context(), "alice", "")
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)

	fresh, err := store.GetOrCreate(t.Context(), "alice", id)
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "task_assistant", cfg.AppName)
	assert.Equal(t, 3600, cfg.TTLSeconds)
}

func TestConfig_Merge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{AppName: "custom", TTLSeconds: -1})
	assert.Equal(t, "custom", cfg.AppName)
	assert.Equal(t, -1, cfg.TTLSeconds)

	cfg.Merge(nil)
	assert.Equal(t, "custom", cfg.AppName)
}

func TestNew_NegativeTTLDisablesExpiry(t *testing.T) {
	store, err := New(&Config{TTLSeconds: -1})
	require.NoError(t, err)

	ms, ok := store.(*memoryStore)
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), ms.ttl)
}
