// Package extract holds the per-format file readers and the error classes
// they share. Every reader rejects a missing or malformed source before any
// extraction work begins; nothing fails mid-stream.
package extract

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound means the source file does not exist or cannot be read.
	ErrNotFound = errors.New("source file not found")

	// ErrBadFormat means the file exists but is not the expected format, or
	// its first rows failed a trial parse.
	ErrBadFormat = errors.New("unexpected source file format")
)

// CheckFile fails fast when the source path is missing or is a directory.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrBadFormat, path)
	}

	return nil
}
