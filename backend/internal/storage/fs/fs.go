package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/google/uuid"
)

// Storage keeps uploaded media on the local disk, served by the router
// under baseURL.
type Storage struct {
	rootPath string
	baseURL  string
	now      func() time.Time
}

func New(rootPath, baseURL string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}, nil
}

func (s *Storage) RootPath() string {
	return s.rootPath
}

// Upload writes obj under <yyyy>/<mm>/<uuid><ext>. The key is the path
// relative to the root.
func (s *Storage) Upload(ctx context.Context, obj domain.Object) (domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoredObject{}, err
	}

	now := s.now().UTC()
	key := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+cleanExt(obj.Ext))
	fullPath := filepath.Join(s.rootPath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return domain.StoredObject{}, fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return domain.StoredObject{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, obj.Data); err != nil {
		// Important: If the copy fails, we should try to clean up the empty file.
		os.Remove(fullPath) // Best effort, ignore error here.
		return domain.StoredObject{}, fmt.Errorf("failed to copy file data: %w", err)
	}

	return domain.StoredObject{URL: s.baseURL + "/" + key, Key: key}, nil
}

// Destroy removes the object behind key. A missing file is not an error.
func (s *Storage) Destroy(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a key to a path under the root, refusing anything that
// would escape it.
func (s *Storage) resolve(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.rootPath, filepath.FromSlash(cleaned)), nil
}

// cleanExt keeps extensions like ".png" and drops anything else.
func cleanExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) || len(ext) > 8 {
		return ""
	}
	return ext
}
