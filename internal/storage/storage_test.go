package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		url, err := store.Put(ctx, "anonymous-reports", "Pothole.JPG", "image/jpeg", strings.NewReader("jpeg-bytes"))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(url, "/uploads/anonymous-reports/"))
		assert.True(t, strings.HasSuffix(url, ".jpg"))

		data, err := os.ReadFile(filepath.Join(dir, "anonymous-reports", filepath.Base(url)))
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(data))
	})

	t.Run("Folder cannot escape the upload dir", func(t *testing.T) {
		url, err := store.Put(ctx, "../../etc", "x.png", "image/png", strings.NewReader("x"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/uploads/etc/"))
		_, err = os.Stat(filepath.Join(dir, "etc", filepath.Base(url)))
		assert.NoError(t, err)
	})

	t.Run("Failure - cancelled context leaves no file", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Put(cctx, "profile-photos", "me.png", "image/png", strings.NewReader("x"))
		require.Error(t, err)

		entries, err := os.ReadDir(filepath.Join(dir, "profile-photos"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestLocalStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Removes a stored file and tolerates repeats", func(t *testing.T) {
		url, err := store.Put(ctx, "anonymous-reports", "a.jpg", "image/jpeg", strings.NewReader("jpeg"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, url))
		_, err = os.Stat(filepath.Join(dir, "anonymous-reports", filepath.Base(url)))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, store.Delete(ctx, url))
	})

	t.Run("Failure - foreign or escaping URLs", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "keep.txt"), []byte("x"), 0640))

		for _, url := range []string{
			"https://cdn.example.com/a.jpg",
			"/uploads/a.jpg",
			"/uploads/../keep.txt",
			"/uploads/x/../../keep.txt",
			"/uploads/anonymous-reports/",
		} {
			assert.Error(t, store.Delete(ctx, url), url)
		}
		_, err := os.Stat(filepath.Join(filepath.Dir(dir), "keep.txt"))
		assert.NoError(t, err)
	})
}
