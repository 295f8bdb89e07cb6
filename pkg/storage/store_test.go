package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", v)

	require.NoError(t, s.Delete(ctx, "a", "never-set"))
	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "kept", "yes"))
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "kept")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "yes", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), "x")
	require.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("AUTHFORM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AUTHFORM_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, Prefix: "authform-test:"})
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRemembered(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := LoadRemembered(ctx, s)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, SaveRemembered(ctx, s, "a@b.com"))
	cred, ok, err := LoadRemembered(ctx, s)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, RememberedCredential{RememberMe: true, Email: "a@b.com"}, cred)

	require.NoError(t, ClearRemembered(ctx, s))
	require.Empty(t, s.Keys())
}

func TestRemembered_RequiresExactFlag(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyRememberMe, "yes"))
	require.NoError(t, s.Set(ctx, KeyUserEmail, "a@b.com"))
	_, ok, err := LoadRemembered(ctx, s)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created := time.Date(2024, 3, 9, 14, 5, 6, 789000000, time.FixedZone("x", 3600))
	p := NewProfile("Ada", "Lovelace", "ada@example.com", created)
	require.Equal(t, "2024-03-09T13:05:06.789Z", p.CreatedAt)

	require.NoError(t, SaveProfile(ctx, s, p))
	raw, _, _ := s.Get(ctx, KeyUserData)
	require.JSONEq(t, `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","createdAt":"2024-03-09T13:05:06.789Z"}`, raw)

	got, ok, err := LoadProfile(ctx, s)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, p, got)

	require.NoError(t, s.Set(ctx, KeyUserData, "nope"))
	_, _, err = LoadProfile(ctx, s)
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, OpenOptions{Driver: "memory"})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, OpenOptions{Driver: "file", Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, OpenOptions{Driver: "file"})
	require.Error(t, err)

	_, err = Open(ctx, OpenOptions{Driver: "bolt"})
	require.Error(t, err)
}
