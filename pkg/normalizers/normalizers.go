// Package normalizers folds provider values into the comparison forms used
// for natural keys and de-duplication.
package normalizers

import (
	"strings"
	"unicode"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps the digits of a phone number in their original order.
// Country prefixes are not inferred, so "+1 555 0100" and "555 0100" differ.
func NormalizePhone(s string) string {
	return DigitsOnly(s)
}

// NormalizeCode upper-cases a carrier, country or document code.
func NormalizeCode(s string) string {
	return strings.ToUpper(RemoveWhitespace(s))
}

// Fold lowercases and collapses whitespace.
func Fold(s string) string {
	return strings.ToLower(CollapseWhitespace(s))
}

func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func RemoveWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Alphanumeric drops separators from document numbers and upper-cases the rest.
func Alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, s)
}

// LastFour returns the last four digits of a possibly masked card number.
func LastFour(s string) string {
	digits := DigitsOnly(s)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
