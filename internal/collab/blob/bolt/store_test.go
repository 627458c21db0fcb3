package bolt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/collab/internal/collab/blob"
	"github.com/aussiebroadwan/collab/internal/collab/blob/bolt"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *bolt.Store {
	t.Helper()
	s, err := bolt.Open(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := bolt.Open("  ")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Ping(ctx), context.Canceled)
}

func TestPutGetDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "projects/p1/a.txt", []byte("hello")))

	got, err := s.Get(ctx, "projects/p1/a.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	require.NoError(t, s.Put(ctx, "projects/p1/a.txt", []byte("bye")))
	got, err = s.Get(ctx, "projects/p1/a.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("bye"), got)

	require.NoError(t, s.Delete(ctx, "projects/p1/a.txt"))
	require.NoError(t, s.Delete(ctx, "projects/p1/a.txt"), "deleting twice is fine")

	_, err = s.Get(ctx, "projects/p1/a.txt")
	require.ErrorIs(t, err, blob.ErrNotFound)

	require.Error(t, s.Put(ctx, "", []byte("x")))
}

func TestDeletePrefix(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, k := range []string{"projects/p1/a", "projects/p1/b", "projects/p10/c", "projects/p2/d"} {
		require.NoError(t, s.Put(ctx, k, []byte(k)))
	}

	n, err := s.DeletePrefix(ctx, "projects/p1/")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	for _, k := range []string{"projects/p10/c", "projects/p2/d"} {
		_, err := s.Get(ctx, k)
		require.NoError(t, err, k)
	}
}

func TestCanceledContext(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Put(ctx, "k", nil), context.Canceled)
	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
