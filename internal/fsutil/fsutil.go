// Package fsutil holds the small file helpers shared by the stores that live
// in the per-user data directory.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place. Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// CopyIfMissing copies legacy to path when path does not exist and legacy
// does. It reports whether a copy happened. An empty legacy path, or one equal
// to path, is a no-op.
func CopyIfMissing(path, legacy string) (bool, error) {
	if legacy == "" || filepath.Clean(legacy) == filepath.Clean(path) {
		return false, nil
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	data, err := os.ReadFile(legacy)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read legacy file: %w", err)
	}

	if err := WriteFileAtomic(path, data); err != nil {
		return false, fmt.Errorf("copy legacy file: %w", err)
	}
	return true, nil
}
