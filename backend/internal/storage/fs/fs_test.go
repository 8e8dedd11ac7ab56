package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew tests the Storage constructor
func TestNew(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		nestedPath := filepath.Join(t.TempDir(), "a", "b", "c")

		storage, err := New(nestedPath, "/media")

		require.NoError(t, err)
		_, err = os.Stat(nestedPath)
		assert.NoError(t, err)
		assert.Equal(t, nestedPath, storage.RootPath())
	})

	t.Run("cleans path to prevent traversal", func(t *testing.T) {
		tmpDir := t.TempDir()
		dirtyPath := filepath.Join(tmpDir, "media", "..", "media")

		storage, err := New(dirtyPath, "/media")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "media"), storage.rootPath)
	})
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("writes under year and month", func(t *testing.T) {
		storage, err := New(t.TempDir(), "/media/")
		require.NoError(t, err)
		storage.now = func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) }

		content := []byte("test file content")
		obj, err := storage.Upload(ctx, domain.Object{Data: bytes.NewReader(content), Size: int64(len(content)), ContentType: "image/png", Ext: ".PNG"})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(obj.Key, "2024/03/"), obj.Key)
		assert.True(t, strings.HasSuffix(obj.Key, ".png"), obj.Key)
		assert.Equal(t, "/media/"+obj.Key, obj.URL)

		saved, err := os.ReadFile(filepath.Join(storage.rootPath, filepath.FromSlash(obj.Key)))
		require.NoError(t, err)
		assert.Equal(t, content, saved)
	})

	t.Run("unique keys", func(t *testing.T) {
		storage, err := New(t.TempDir(), "/media")
		require.NoError(t, err)

		a, err := storage.Upload(ctx, domain.Object{Data: strings.NewReader("a"), Ext: ".jpg"})
		require.NoError(t, err)
		b, err := storage.Upload(ctx, domain.Object{Data: strings.NewReader("b"), Ext: ".jpg"})
		require.NoError(t, err)
		assert.NotEqual(t, a.Key, b.Key)
	})

	t.Run("hostile extension is dropped", func(t *testing.T) {
		storage, err := New(t.TempDir(), "/media")
		require.NoError(t, err)

		obj, err := storage.Upload(ctx, domain.Object{Data: strings.NewReader("x"), Ext: "./../../etc"})
		require.NoError(t, err)
		assert.NotContains(t, obj.Key, "..")
	})

	t.Run("failed copy leaves no file", func(t *testing.T) {
		root := t.TempDir()
		storage, err := New(root, "/media")
		require.NoError(t, err)

		_, err = storage.Upload(ctx, domain.Object{Data: failingReader{}, Ext: ".png"})
		require.Error(t, err)

		var files []string
		filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				files = append(files, p)
			}
			return nil
		})
		assert.Empty(t, files)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	storage, err := New(root, "/media")
	require.NoError(t, err)

	obj, err := storage.Upload(ctx, domain.Object{Data: strings.NewReader("x"), Ext: ".gif"})
	require.NoError(t, err)

	require.NoError(t, storage.Destroy(ctx, obj.Key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(obj.Key)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, storage.Destroy(ctx, obj.Key), "missing object is not an error")
	assert.Error(t, storage.Destroy(ctx, ""), "empty key")

	// keys cannot climb out of the root
	outside := filepath.Join(filepath.Dir(root), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))
	t.Cleanup(func() { os.Remove(outside) })
	require.NoError(t, storage.Destroy(ctx, "../keep.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "services.json"), []byte(`[{"title":"Weddings"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pricing.json"), []byte(`{broken`), 0644))
	content := NewContent(dir)

	doc, err := content.Document("services")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Weddings"}]`, string(doc))

	_, err = content.Document("pricing")
	assert.Error(t, err, "invalid json")

	_, err = content.Document("gallery")
	assert.Error(t, err, "missing file")

	_, err = content.Document("../services")
	assert.Error(t, err, "path traversal")
}
