package utils

import (
	"regexp"
	"strings"

	"codebin/pkg/models"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

// ValidateUsername checks if username meets account requirements
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidatePassword checks if password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateSnippetTitle validates a snippet title
func ValidateSnippetTitle(title string) error {
	if len(strings.TrimSpace(title)) < 1 {
		return models.ErrInvalidInput
	}
	if len(title) > 255 {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateCommentBody validates a comment body. Whitespace-only bodies are
// rejected; length is bounded before it ever reaches the store.
func ValidateCommentBody(body string) error {
	if len(strings.TrimSpace(body)) == 0 {
		return models.ErrInvalidInput
	}
	if len(body) > models.MaxCommentLength {
		return models.ErrInvalidInput
	}
	return nil
}
