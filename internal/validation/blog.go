// Package validation holds format rules for user-supplied identifiers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// categorySlugRegex mirrors the identifier rule for category slugs: latin
// letters, digits, hyphen and underscore.
var categorySlugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,150}$`)

// reservedCategorySlugs are path segments already claimed by the API.
var reservedCategorySlugs = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"auth":       {},
	"categories": {},
	"posts":      {},
	"comments":   {},
	"profiles":   {},
	"metrics":    {},
	"health":     {},
	"login":      {},
	"signup":     {},
}

var reservedUsernames = map[string]struct{}{
	"me":    {},
	"admin": {},
	"api":   {},
}

// ValidateCategorySlug validates category slug format and reserved names.
func ValidateCategorySlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if !categorySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug may contain only latin letters, digits, hyphens and underscores")
	}
	if _, exists := reservedCategorySlugs[strings.ToLower(slug)]; exists {
		return fmt.Errorf("slug is reserved")
	}
	return nil
}

// ValidateUsername validates profile username format and reserved names.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 2-150 characters of letters, digits, dots, hyphens or underscores")
	}
	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}
