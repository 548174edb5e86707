package masterdb

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeEmail lowercases and trims an email for matching against the
// master database, which stores emails in mixed case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneSuffix returns the last ten digits of a phone number, the part that
// survives country-code and formatting differences between the two systems.
func PhoneSuffix(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// NormalizeUUID strips hyphens from a UUID string, matching the hex storage
// format some master schemas use. Non-UUID values pass through trimmed, so
// plain numeric identities survive unchanged.
func NormalizeUUID(value string) string {
	s := strings.TrimSpace(value)
	if _, err := uuid.Parse(s); err == nil {
		return strings.ReplaceAll(s, "-", "")
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
