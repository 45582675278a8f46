package utils

import (
	"regexp"
	"strings"
	"unicode"
)

func IsValidName(name string) bool {
	if len(strings.TrimSpace(name)) < 2 {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

func SanitizeString(input string) string {
	// Remove HTML tags
	htmlRegex := regexp.MustCompile(`<[^>]*>`)
	cleaned := htmlRegex.ReplaceAllString(input, "")

	return strings.TrimSpace(cleaned)
}

func IsValidLicensePlate(plate string) bool {
	// Covers both the old AAA-123 and the new AA-123-BB Argentine formats.
	plateRegex := regexp.MustCompile(`^[A-Z]{3}[\s\-]?[0-9]{3}$|^[A-Z]{2}[\s\-]?[0-9]{3}[\s\-]?[A-Z]{2}$`)
	return plateRegex.MatchString(strings.ToUpper(plate))
}
