// Package sink persists result sets as rows of named columns and handles
// the file-destination policy: missing directories are created, existing
// files are never silently overwritten.
package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists reports a destination that already holds data. Callers decide
// abort vs. overwrite; overwriting is the explicit choice, never the
// default.
var ErrExists = errors.New("sink: destination already exists")

// create opens path for writing, making parent directories as needed.
// Without overwrite an existing file fails with ErrExists.
func create(path string, overwrite bool) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sink: create directory %s: %w", dir, err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	return f, nil
}

// WriteFile writes formatted output to path under the destination policy.
func WriteFile(path string, data []byte, overwrite bool) error {
	f, err := create(path, overwrite)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	return f.Close()
}
