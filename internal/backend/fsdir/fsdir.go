package fsdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"diskcache/internal/logging"
)

var logger = logging.For("fsdir")

// ErrInvalidKey is returned for keys that cannot be used as file names.
var ErrInvalidKey = errors.New("invalid key")

// Fsdir stores one file per key directly under a root directory.
// The file name is the key and the file contents are the value.
type Fsdir struct {
	root string
}

// Open creates the root directory if needed and returns a backend over it.
func Open(root string) (*Fsdir, error) {
	if root == "" {
		return nil, errors.New("store root required")
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}
	return &Fsdir{root: root}, nil
}

// Root returns the backing directory path.
func (f *Fsdir) Root() string {
	return f.root
}

func (f *Fsdir) Write(key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(value), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (f *Fsdir) Read(key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *Fsdir) Remove(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Wipe deletes the entire root and recreates it empty, so the backend
// stays writable afterwards. An absent root is success.
func (f *Fsdir) Wipe() error {
	if err := os.RemoveAll(f.root); err != nil {
		return fmt.Errorf("wiping store root: %w", err)
	}
	if err := os.MkdirAll(f.root, 0700); err != nil {
		return fmt.Errorf("recreating store root: %w", err)
	}
	logger.Debug("wiped store root", "root", f.root)
	return nil
}

func (f *Fsdir) Close() error {
	return nil
}

// path maps a key to its file under the root. Keys that would escape the
// root or collide with directory entries are rejected.
func (f *Fsdir) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	}
	return filepath.Join(f.root, key), nil
}
