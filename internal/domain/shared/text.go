package shared

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CleanText trims surrounding whitespace and normalizes user input to NFC
// so visually identical strings compare equal.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FoldKey returns the case-insensitive comparison key for usernames and emails.
func FoldKey(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(CleanText(s))
}
