package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes proofs below a root directory on disk. Keys are slash
// separated paths relative to the root, and URL prefixes them with baseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", abs, err)
	}
	return &LocalStorage{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// keyPath normalises key and maps it onto the filesystem. Keys that resolve to
// the root itself or outside of it are rejected.
func (s *LocalStorage) keyPath(key string) (string, string, error) {
	clean := strings.TrimPrefix(filepath.Clean("/"+key), string(filepath.Separator))
	if clean == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	full := filepath.Join(s.root, clean)
	if rel, err := filepath.Rel(s.root, full); err != nil || strings.HasPrefix(rel, "..") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return filepath.ToSlash(clean), full, nil
}

// Upload streams file into a temporary sibling and renames it into place, so a
// reader never observes a partial proof.
func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	normalised, full, err := s.keyPath(key)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory for %q: %w", normalised, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file for %q: %w", normalised, err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, ctxReader{ctx: ctx, r: file}); err != nil {
		return "", fmt.Errorf("write %q: %w", normalised, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", normalised, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("move %q into place: %w", normalised, err)
	}
	committed = true
	return normalised, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	normalised, full, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", normalised, err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(key), "/")
}

// ctxReader stops a copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
