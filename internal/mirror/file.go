package mirror

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
)

// FileBackend stores each key as a JSON file inside a directory, so the
// mirror survives process restarts.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(ErrStorageUnavailable, "mkdir %s: %v", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, classifyFileErr(err)
	}
	return b, nil
}

// Set writes to a temp file and renames it over the target so a crash
// never leaves a half written document behind.
func (f *FileBackend) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".mirror-*")
	if err != nil {
		return classifyFileErr(err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return classifyFileErr(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return classifyFileErr(err)
	}
	if err := os.Rename(name, f.path(key)); err != nil {
		_ = os.Remove(name)
		return classifyFileErr(err)
	}
	return nil
}

func classifyFileErr(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return errors.Wrap(ErrStorageFull, err.Error())
	}
	return errors.Wrap(ErrStorageUnavailable, err.Error())
}
