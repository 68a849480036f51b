package storage

import (
	"context"
	"io"
)

// DocumentStore persists rendered report files under relative names.
type DocumentStore interface {
	// Save writes the content under name, replacing any previous file, and returns its location.
	Save(ctx context.Context, name string, content io.Reader) (string, error)

	// Open retrieves a stored file
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, name string) error

	// Exists checks if file exists
	Exists(ctx context.Context, name string) (bool, error)
}
