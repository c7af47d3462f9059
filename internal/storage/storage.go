// Package storage keeps uploaded files and hands back the URL they are served at.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore stores an uploaded file under folder and returns a stable URL.
// Delete removes a file by the URL Put returned; a missing file is not an error.
type BlobStore interface {
	Put(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

type localStore struct {
	dir     string
	baseURL string
}

// NewLocalStore writes files below dir; they are expected to be served under
// baseURL.
func NewLocalStore(dir, baseURL string) (BlobStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *localStore) Put(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	folder = filepath.Base(filepath.Clean("/" + folder))
	if folder == "/" || folder == "." {
		return "", fmt.Errorf("invalid folder %q", folder)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0750); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dst := filepath.Join(s.dir, folder, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, contextReader{ctx: ctx, r: r}); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	slog.Debug("Stored upload", "folder", folder, "name", name, "content_type", contentType)
	return s.baseURL + "/" + path.Join(folder, name), nil
}

func (s *localStore) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("url %q is not served by this store", url)
	}
	folder, name := path.Split(rel)
	folder = path.Clean(folder)
	if folder != path.Base(folder) || folder == "." || folder == ".." || name == "" || name == ".." {
		return fmt.Errorf("invalid upload url %q", url)
	}
	if err := os.Remove(filepath.Join(s.dir, folder, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// contextReader stops a copy once the request is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
