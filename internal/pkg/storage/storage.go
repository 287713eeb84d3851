package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

// FileStorage keeps generated and uploaded files (payslips, employee photos).
type FileStorage interface {
	// Upload writes the file under path and returns the cleaned path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// URL returns the public address of a stored file
	URL(path string) string

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// Stored file folders.
const (
	DirPhotos   = "photos"
	DirPayslips = "payslips"
)
