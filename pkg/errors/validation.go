package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// Absolute paths and parent references are allowed; the CLI reads files
// the user names explicitly.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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

// ValidateSentence checks that an input sentence is displayable text.
// Empty sentences are valid and tokenize to nothing.
func ValidateSentence(s string) error {
	if !utf8.ValidString(s) {
		return New(ErrCodeInvalidInput, "sentence is not valid UTF-8")
	}
	if strings.ContainsRune(s, '\x00') {
		return New(ErrCodeInvalidInput, "sentence contains a null byte")
	}
	return nil
}

// keyRegex matches graph attribute keys: letters, digits, hyphens and
// underscores, starting with a letter.
var keyRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateKey validates a configured attribute key such as a relation name.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidKey, "key too long (max 128 characters): %q", key)
	}
	if !keyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid key: %q", key)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed. kind names the value
// in the error message.
func ValidateChoice(kind, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid %s %q (want one of: %s)", kind, value, strings.Join(allowed, ", "))
}
