package slot

import (
	"fmt"
	"os"
	"path/filepath"
)

// File stores each slot as <dir>/<name>.json.
type File struct {
	dir string
}

// NewFile creates a file-backed slot store rooted at dir.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("file medium requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating slot directory %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Get returns the value of a slot.
func (f *File) Get(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", name, err)
	}
	return data, nil
}

// Put overwrites the value of a slot. The write goes to a temp file that
// is renamed into place, so readers never see a partial value.
func (f *File) Put(name string, value []byte) (err error) {
	if err := checkName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing slot %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing slot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing slot %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), f.path(name)); err != nil {
		return fmt.Errorf("replacing slot %s: %w", name, err)
	}
	return nil
}
