package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Uploads stores uploaded files in a flat directory keyed by file name. Names are used
// as given: a later upload with the same name overwrites the earlier file, and concurrent
// uploads of one name race with the last writer winning.
type Uploads struct {
	dir string
}

// NewUploads returns an upload store rooted at dir. The directory is created on first save.
func NewUploads(dir string) *Uploads {
	return &Uploads{dir: dir}
}

// Dir returns the uploads directory.
func (u *Uploads) Dir() string {
	return u.dir
}

// Path returns the path a file with the given name is stored at.
func (u *Uploads) Path(name string) string {
	return filepath.Join(u.dir, name)
}

// Save writes r verbatim to the uploads directory under name, replacing any existing file,
// and returns the stored path and its size on disk.
func (u *Uploads) Save(name string, r io.Reader) (string, int64, error) {
	if name == "" {
		return "", 0, fmt.Errorf("file name is required")
	}
	if err := os.MkdirAll(u.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	path := u.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return path, info.Size(), nil
}

// DiskUsage returns the total size in bytes of the uploads directory.
func (u *Uploads) DiskUsage() (int64, error) {
	return DiskUsageBytes(u.dir)
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Each path may be a file or a directory (recursively summed).
// Missing paths are skipped (contribute 0); errors during walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		err = filepath.WalkDir(p, func(_ string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
