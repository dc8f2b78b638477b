package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Compile-time check that FileSystem implements Storage.
var _ Storage = (*FileSystem)(nil)

// FileSystem implements Storage using the local filesystem.
// Files are stored at <basePath>/<userID>/images/<filename>.
type FileSystem struct {
	basePath string
}

// NewFileSystem creates a new FileSystem storage rooted at basePath.
func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: basePath}
}

// Root returns the directory all user directories live under.
func (fs *FileSystem) Root() string {
	return fs.basePath
}

// SafeSegment reports whether name can be used as a single path element
// without escaping its parent directory.
func SafeSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// userDir returns the image directory for a given user.
func (fs *FileSystem) userDir(userID string) (string, error) {
	if !SafeSegment(userID) {
		return "", fmt.Errorf("user id %q: %w", userID, ErrInvalidName)
	}
	return filepath.Join(fs.basePath, userID, "images"), nil
}

// imagePath returns the full path to a stored image.
func (fs *FileSystem) imagePath(userID, filename string) (string, error) {
	dir, err := fs.userDir(userID)
	if err != nil {
		return "", err
	}
	if !SafeSegment(filename) {
		return "", fmt.Errorf("filename %q: %w", filename, ErrInvalidName)
	}
	return filepath.Join(dir, filename), nil
}

// Store writes data from the reader directly to its final path, truncating
// any file already there.
func (fs *FileSystem) Store(userID, filename string, data io.Reader) (int64, error) {
	path, err := fs.imagePath(userID, filename)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening file %s: %w", path, err)
	}

	n, err := io.Copy(f, data)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("writing data: %w", err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing file %s: %w", path, err)
	}
	return n, nil
}

// Retrieve opens the stored file. Directories are reported as not found.
func (fs *FileSystem) Retrieve(userID, filename string) (*Object, error) {
	path, err := fs.imagePath(userID, filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image %s/%s: %w", userID, filename, ErrNotFound)
		}
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("image %s/%s: %w", userID, filename, ErrNotFound)
	}

	return &Object{
		ReadSeekCloser: f,
		Name:           info.Name(),
		Size:           info.Size(),
		ModTime:        info.ModTime(),
	}, nil
}

// List returns the regular files in the user's image directory in name order.
// A missing directory is ErrNotFound; an existing empty one yields an empty slice.
func (fs *FileSystem) List(userID string) ([]string, error) {
	dir, err := fs.userDir(userID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image directory for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Delete removes exactly one file. Unlike a directory removal it is not
// idempotent: a missing file is ErrNotFound.
func (fs *FileSystem) Delete(userID, filename string) error {
	exists, err := fs.Exists(userID, filename)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("image %s/%s: %w", userID, filename, ErrNotFound)
	}

	path, _ := fs.imagePath(userID, filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image %s/%s: %w", userID, filename, ErrNotFound)
		}
		return fmt.Errorf("removing file %s: %w", path, err)
	}
	return nil
}

// Exists checks whether a regular file exists at the image path.
func (fs *FileSystem) Exists(userID, filename string) (bool, error) {
	path, err := fs.imagePath(userID, filename)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking file %s: %w", path, err)
}
