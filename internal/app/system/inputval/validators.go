package inputval

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail reports whether s is a plausible bare email address.
// Display-name forms ("Pat <pat@example.com>") are rejected; we store the
// address, not a header. RFC 5322 quirks the parser allows but no mail
// system accepts (leading, trailing, or doubled dots) are rejected too.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// IsValidObjectID reports whether s (trimmed) is a 24-character hex Mongo
// ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidHTTPURL reports whether s (trimmed) is an absolute http or https
// URL with a host.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidShopRole reports whether s (trimmed, case-insensitive) names a
// role that can be granted through team forms. Ownership is not grantable.
func IsValidShopRole(s string) bool {
	return models.IsAssignableRole(models.Role(strings.ToLower(strings.TrimSpace(s))))
}

// AllowedShopRolesList returns the assignable shop roles for error messages
// and form dropdowns.
func AllowedShopRolesList() []string {
	out := make([]string, len(models.AssignableRoles))
	for i, r := range models.AssignableRoles {
		out[i] = string(r)
	}
	return out
}
