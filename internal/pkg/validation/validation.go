package validation

import (
	"regexp"
	"strings"
)

// /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ISO 4217 style code.
var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Weekday names or YYYY-MM-DD dates accepted in availability day sets.
var dayRe = regexp.MustCompile(`^(?i:mon|tue|wed|thu|fri|sat|sun|monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{4}-\d{2}-\d{2})$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidCurrency(code string) bool {
	return currencyRe.MatchString(code)
}

func IsValidDay(day string) bool {
	return dayRe.MatchString(strings.TrimSpace(day))
}

// NonBlank reports whether s has content after trimming whitespace.
func NonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
