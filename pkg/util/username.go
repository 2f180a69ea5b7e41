package util

import (
	"regexp"
	"strings"
)

// usernamePattern is the set of characters a seller username may contain.
var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// derivedStrip removes everything that is not a lowercase letter or digit.
var derivedStrip = regexp.MustCompile(`[^a-z0-9]+`)

// ValidUsername reports whether the username matches the allowed pattern.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// DeriveUsername derives a seller username from an email address:
// the local part, lowercased, stripped to letters and digits.
// Returns an empty string when nothing usable remains.
func DeriveUsername(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.ToLower(strings.TrimSpace(local))
	return derivedStrip.ReplaceAllString(local, "")
}
