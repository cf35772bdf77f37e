// Where: internal/infra/fileops/file_ops.go
// What: Filesystem helpers for emitted build artifacts.
// Why: Keep artifact writes consistent and never leave half-written bundles behind.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
)

// AssetMode is the permission for files served to browsers.
const AssetMode os.FileMode = 0o644

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func WriteFile(path, content string) error {
	return WriteBytes(path, []byte(content))
}

// WriteBytes writes data through a temp file in the same directory and
// renames it into place.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, AssetMode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// RemoveFile deletes path, ignoring a missing file.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
