package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// slugRegex matches the slugs produced by draft.Slugify.
var slugRegex = regexp.MustCompile(`^[a-z0-9_]+(-[a-z0-9_]+)*$`)

// ValidateSlug validates a post slug before it becomes part of a storage key.
//
// The validation rules are intentionally conservative:
//   - No empty slugs
//   - Maximum length of 200 characters
//   - Lowercase letters, digits, underscores and single hyphens only
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}
	if len(slug) > 200 {
		return New(ErrCodeInvalidSlug, "slug too long (max 200 characters)")
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidSlug, "invalid slug: %q", slug)
	}
	return nil
}

// ValidatePath validates a storage key or repository path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
