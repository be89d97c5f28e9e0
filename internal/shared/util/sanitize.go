package util

import (
	"errors"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// SanitizeFileName flattens path separators out of an uploaded file name.
// Names containing traversal sequences or reducing to nothing are rejected.
func SanitizeFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	return separatorReplacer.Replace(name), nil
}
