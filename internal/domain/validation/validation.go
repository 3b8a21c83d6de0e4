// Package validation holds the syntactic rules for profile fields.
// Each rule returns an empty string for a valid value or a message otherwise.
package validation

import (
	"net/url"
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
	PasswordMinLength = 8

	// PasswordMaxBytes is the longest input bcrypt accepts.
	PasswordMaxBytes = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// ValidateUsername checks presence, length and charset.
func ValidateUsername(username string) string {
	if username == "" {
		return "username is required"
	}
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return "username must be between 3 and 20 characters"
	}
	if !usernamePattern.MatchString(username) {
		return "username may only contain letters, digits and underscores"
	}
	return ""
}

// ValidateEmail checks presence and shape.
func ValidateEmail(email string) string {
	if email == "" {
		return "email is required"
	}
	if !emailPattern.MatchString(email) {
		return "email is not a valid address"
	}
	return ""
}

// ValidatePassword checks length and the required character classes.
func ValidatePassword(password string) string {
	if password == "" {
		return "password is required"
	}
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return "password must be at least 8 characters"
	}
	if len(password) > PasswordMaxBytes {
		return "password must be at most 72 bytes"
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return "password must contain an uppercase letter"
	case !lower:
		return "password must contain a lowercase letter"
	case !digit:
		return "password must contain a digit"
	case !symbol:
		return "password must contain a symbol"
	}
	return ""
}

// ValidateAvatarURL checks for an absolute http(s) URL.
func ValidateAvatarURL(raw string) string {
	if raw == "" {
		return "avatar URL is required"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "avatar URL must be an absolute http or https URL"
	}
	return ""
}
