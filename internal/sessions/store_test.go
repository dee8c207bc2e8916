package sessions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalsync-io/capsync/internal/common"
	"github.com/capitalsync-io/capsync/internal/models"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	session := models.NewSession()
	session.CSRF = "4a6c21c2-9f1e-4b7a-8c3d-1a2b3c4d5e6f"
	session.Authenticated = true
	session.Cookies = []models.Cookie{
		{Name: "PMData", Value: "opaque-blob", Domain: "example.com", Path: "/"},
		{Name: "JSESSIONID", Value: "abc123", Expires: time.Now().Add(24 * time.Hour).UTC()},
	}

	require.NoError(t, store.Save("user@example.com", session))

	loaded, ok := store.Load("user@example.com")
	require.True(t, ok)

	assert.Equal(t, session.CSRF, loaded.CSRF)
	assert.Equal(t, session.DeviceID, loaded.DeviceID)
	assert.True(t, loaded.Authenticated)
	require.Len(t, loaded.Cookies, 2)
	assert.Equal(t, "PMData", loaded.Cookies[0].Name)
	assert.Equal(t, "opaque-blob", loaded.Cookies[0].Value)
	assert.Equal(t, "example.com", loaded.Cookies[0].Domain)
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	session, ok := store.Load("nobody@example.com")
	assert.False(t, ok)
	assert.Nil(t, session)
}

func TestStore_LoadCorruptFile(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.dir, common.CacheKeyForIdentity("user@example.com")+".yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0600))

	_, ok := store.Load("user@example.com")
	assert.False(t, ok, "corrupt cache must degrade to absent")
}

func TestStore_LoadTruncatedFile(t *testing.T) {
	store := newTestStore(t)

	session := models.NewSession()
	session.Authenticated = true
	require.NoError(t, store.Save("user@example.com", session))

	path := store.pathFor("user@example.com")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)/3], 0600))

	// A truncated record either fails to parse or loses required
	// fields; both degrade to absent.
	if loaded, ok := store.Load("user@example.com"); ok {
		assert.NotNil(t, loaded)
	}
}

func TestStore_LoadVersionMismatch(t *testing.T) {
	store := newTestStore(t)

	path := store.pathFor("user@example.com")
	record := "version: 99\ntimestamp: 2026-01-01T00:00:00Z\nsession:\n  csrf: abc\n"
	require.NoError(t, os.WriteFile(path, []byte(record), 0600))

	_, ok := store.Load("user@example.com")
	assert.False(t, ok, "future cache versions must not be decoded on a guess")
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	first := models.NewSession()
	first.CSRF = "first"
	require.NoError(t, store.Save("user@example.com", first))

	second := models.NewSession()
	second.CSRF = "second"
	require.NoError(t, store.Save("user@example.com", second))

	loaded, ok := store.Load("user@example.com")
	require.True(t, ok)
	assert.Equal(t, "second", loaded.CSRF)
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	session := models.NewSession()
	require.NoError(t, store.Save("user@example.com", session))

	require.NoError(t, store.Remove("user@example.com"))
	require.NoError(t, store.Remove("user@example.com"))

	_, ok := store.Load("user@example.com")
	assert.False(t, ok)
}

func TestStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("user@example.com", models.NewSession()))

	info, err := os.Stat(store.pathFor("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_KeyedByIdentity(t *testing.T) {
	store := newTestStore(t)

	a := models.NewSession()
	a.CSRF = "token-a"
	b := models.NewSession()
	b.CSRF = "token-b"

	require.NoError(t, store.Save("a@example.com", a))
	require.NoError(t, store.Save("b@example.com", b))

	loadedA, ok := store.Load("a@example.com")
	require.True(t, ok)
	loadedB, ok := store.Load("b@example.com")
	require.True(t, ok)

	assert.Equal(t, "token-a", loadedA.CSRF)
	assert.Equal(t, "token-b", loadedB.CSRF)
}
