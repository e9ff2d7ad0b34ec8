package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps images in a local directory. References are bare file names,
// served by the HTTP layer under /images.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the directory if needed and returns a DiskStore over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the image to a new file.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, contentType string) (string, error) {
	name := NewName()

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return name, nil
}

// Delete removes the image file. Missing files are not an error.
func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
