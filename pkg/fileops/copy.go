package fileops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0755
	filePerm = 0644

	tempSuffix = ".tmp"
)

// AtomicCopy copies srcPath to destPath. The destination either keeps its
// previous content or holds the full copy; it is never partially written.
// An existing destination is overwritten.
func AtomicCopy(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	return atomicWrite(destPath, func(w io.Writer) error {
		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("failed to copy file contents: %w", err)
		}
		return nil
	})
}

// AtomicWriteFile writes data to path through a temporary file and a rename,
// creating parent directories first.
//
// Usage example:
//
//	if err := fileops.AtomicWriteFile(".cursor/rules/go.mdc", content); err != nil {
//	    return fmt.Errorf("write rule: %w", err)
//	}
func AtomicWriteFile(path string, data []byte) error {
	if err := EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	return atomicWrite(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write file contents: %w", err)
		}
		return nil
	})
}

// atomicWrite fills a sibling temp file, syncs it and renames it over
// destPath. The temp file is removed on any failure.
func atomicWrite(destPath string, fill func(io.Writer) error) (err error) {
	tempPath := destPath + tempSuffix
	tmp, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	closed := false
	defer func() {
		if !closed {
			tmp.Close()
		}
		if err != nil {
			os.Remove(tempPath)
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tempPath, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tempPath, err)
	}
	if err = os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", destPath, err)
	}
	return nil
}

// EnsureDirectoryExists is mkdir -p with 0755 permissions.
func EnsureDirectoryExists(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
