package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var separatorRun = regexp.MustCompile(`[-_]{2,}`)

// ValidateRelativeDir checks that dir is a non-empty relative path that stays
// below the directory it is resolved against.
//
// Usage example:
//
//	if err := fileops.ValidateRelativeDir(cfg.CanonicalDir); err != nil {
//	    return fmt.Errorf("invalid canonical_dir: %w", err)
//	}
func ValidateRelativeDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("directory cannot be empty")
	}
	if filepath.IsAbs(dir) {
		return fmt.Errorf("directory %q must be relative to the project root", dir)
	}

	clean := filepath.Clean(dir)
	if clean == "." {
		return fmt.Errorf("directory %q resolves to the project root", dir)
	}
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed in %q", dir)
		}
	}
	return nil
}

// RegularFileExists reports whether path names a regular file. A missing
// path is not an error; any other stat failure is returned.
func RegularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// DirExists is RegularFileExists for directories.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// SanitizeIdentifier reduces identifier to letters, digits, '-', '_' and '.'.
// Whitespace becomes '_', runs of two or more separators collapse to a single
// '_', and leading or trailing separators are dropped. A positive maxLength
// truncates the result.
//
// Usage example:
//
//	name, err := fileops.SanitizeIdentifier("Go style  guide!", 64)
//	// name == "Go_style_guide"
func SanitizeIdentifier(identifier string, maxLength int) (string, error) {
	if strings.TrimSpace(identifier) == "" {
		return "", fmt.Errorf("identifier cannot be empty")
	}

	var sb strings.Builder
	for _, r := range strings.TrimSpace(identifier) {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		}
	}

	result := separatorRun.ReplaceAllString(sb.String(), "_")
	if maxLength > 0 && len(result) > maxLength {
		result = result[:maxLength]
	}
	result = strings.Trim(result, "_-.")
	if result == "" {
		return "", fmt.Errorf("identifier becomes empty after sanitization")
	}
	return result, nil
}
