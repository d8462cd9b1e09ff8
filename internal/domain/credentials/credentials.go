// Package credentials validates email addresses and passwords client-side
// before they are ever transmitted.
package credentials

import (
	"regexp"
	"strings"

	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

var (
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidateEmail rejects malformed addresses and known throwaway accounts.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "email address is not valid", nil)
	}
	if _, ok := commonEmails[strings.ToLower(email)]; ok {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "email address is a known throwaway", nil)
	}
	return nil
}

// ValidatePassword enforces the password policy: 8-32 characters, at least
// one uppercase, lowercase, digit, and special character, no character
// repeated three times in a row, no whitespace, and not on the common
// password denylist.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password must be at least 8 characters", nil)
	case len(password) > 32:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password cannot exceed 32 characters", nil)
	case !upperPattern.MatchString(password):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password needs an uppercase letter", nil)
	case !lowerPattern.MatchString(password):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password needs a lowercase letter", nil)
	case !digitPattern.MatchString(password):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password needs a digit", nil)
	case !specialPattern.MatchString(password):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password needs a special character", nil)
	case hasRepeatedRun(password):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password cannot repeat a character three times in a row", nil)
	case strings.ContainsAny(password, " \t\n\r"):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password cannot contain whitespace", nil)
	}
	if _, ok := commonPasswords[password]; ok {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "password is too common", nil)
	}
	return nil
}

func hasRepeatedRun(password string) bool {
	runes := []rune(password)
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1] && runes[i] == runes[i-2] {
			return true
		}
	}
	return false
}
