package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("stored document not found")
	ErrInvalidPath = errors.New("invalid document path")
)

// FileStorage keeps rendered documents such as payslip PDFs.
type FileStorage interface {
	// Upload stores the content under path and returns the cleaned key
	Upload(ctx context.Context, content io.Reader, path string, contentType string) (string, error)

	// Download opens a stored document
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)
}
