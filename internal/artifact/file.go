package artifact

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/peakform/recohub/internal/domain"
)

// Save gob-encodes v to <dir>/<name>.gob via a temp file and an atomic
// rename, so a failed build never clobbers the previous blob.
func Save[T any](dir, name string, v *T) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	final := filePath(dir, name)
	tmp := final + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode artifact %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close artifact %s: %w", name, err)
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("swap artifact %s: %w", name, err)
	}
	return nil
}

// Load reads a previously saved artifact. Missing or corrupt files map to
// ErrUnavailable so callers can treat "rebuild has not happened yet" and
// "storage is broken" the same way: retry later.
func Load[T any](dir, name string) (*T, error) {
	f, err := os.Open(filePath(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s missing: %w", name, domain.ErrUnavailable)
		}
		return nil, fmt.Errorf("open artifact %s: %w: %w", name, domain.ErrUnavailable, err)
	}
	defer f.Close()

	var v T
	if err := gob.NewDecoder(f).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w: %w", name, domain.ErrUnavailable, err)
	}
	return &v, nil
}

func filePath(dir, name string) string {
	return filepath.Join(dir, name+".gob")
}
