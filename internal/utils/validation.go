package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeLetter upper-cases r and reports whether it is a letter A-Z
func NormalizeLetter(r rune) (rune, bool) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return r, r >= 'A' && r <= 'Z'
}

// ValidateLetter checks that s holds exactly one letter A-Z (any case)
func ValidateLetter(field, s string) (rune, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ValidationError{Field: field, Message: "letter is required"}
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, ValidationError{Field: field, Message: "must be a single letter"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	upper, ok := NormalizeLetter(r)
	if !ok {
		return 0, ValidationError{Field: field, Message: fmt.Sprintf("%q is not a letter A-Z", s)}
	}
	return upper, nil
}

// ValidateToken checks that a level range token is present and has no spaces
func ValidateToken(field, token string) error {
	if strings.TrimSpace(token) == "" {
		return ValidationError{Field: field, Message: "token is required"}
	}
	if strings.ContainsAny(token, " \t\n") {
		return ValidationError{Field: field, Message: "token must not contain whitespace"}
	}
	return nil
}
