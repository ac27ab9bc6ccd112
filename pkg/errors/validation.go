package errors

import (
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers accepted from catalog data and URLs.
const maxNodeIDLength = 256

// ValidateNodeID validates a hierarchy node identifier.
//
// IDs travel through HTTP API paths and SVG attributes:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node ID too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a user-supplied data or config file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateGroupingMode checks that mode is one of the supported values
// (case-insensitive). Unknown modes return DATA_UNAVAILABLE.
func ValidateGroupingMode(mode string, supported []string) error {
	for _, s := range supported {
		if strings.EqualFold(mode, s) {
			return nil
		}
	}
	return New(ErrCodeDataUnavailable, "unknown grouping mode %q (must be one of: %s)", mode, strings.Join(supported, ", "))
}
