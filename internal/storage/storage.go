package storage

import (
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a user directory or image file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName is returned when a user ID or filename is not a single safe path segment.
	ErrInvalidName = errors.New("invalid name")
)

// Object is an opened image file.
type Object struct {
	io.ReadSeekCloser
	Name    string
	Size    int64
	ModTime time.Time
}

// Storage defines the interface for per-user image storage.
type Storage interface {
	// Store writes image data under the user's directory, creating it if needed,
	// and returns the number of bytes written. An existing file is overwritten.
	Store(userID, filename string, data io.Reader) (int64, error)

	// Retrieve opens a stored image for reading.
	Retrieve(userID, filename string) (*Object, error)

	// List returns the filenames in the user's image directory.
	List(userID string) ([]string, error)

	// Delete removes one stored image.
	Delete(userID, filename string) error

	// Exists checks whether an image exists in storage.
	Exists(userID, filename string) (bool, error)
}
