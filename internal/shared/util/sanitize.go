package util

import (
	"errors"
	"strings"
)

// ErrInvalidFileName reports a name that is empty or tries to escape its directory.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators into underscores and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
