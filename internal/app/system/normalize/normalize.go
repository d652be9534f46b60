// Package normalize canonicalizes user-entered identity fields before they
// are stored or compared. Stores call these so the same value typed two
// different ways lands as one document.
package normalize

import (
	"strings"

	"github.com/dalemusser/shophub/internal/domain/models"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved; use text.Fold for the
// case-insensitive companion field.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a shop role value from a form.
func Role(s string) models.Role {
	return models.Role(strings.ToLower(strings.TrimSpace(s)))
}

// Tier lowercases and trims a subscription tier value.
func Tier(s string) models.Tier {
	return models.Tier(strings.ToLower(strings.TrimSpace(s)))
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
