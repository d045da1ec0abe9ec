package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrInvalidPath        = errors.New("invalid file path")
)

type FileStorage interface {
	// Upload stores a file and returns its key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error

	// URL returns a public URL for a stored key
	URL(path string) string
}

type UploadOptions struct {
	MaxSize     int64
	AllowedExts []string
}

// Check validates a file name and size against opts and returns the lower-cased extension
func (o UploadOptions) Check(filename string, size int64) (string, error) {
	if o.MaxSize > 0 && size > o.MaxSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range o.AllowedExts {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrFileTypeNotAllowed
}

// ContentTypeFor maps the extensions accepted for proofs to a MIME type
func ContentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
