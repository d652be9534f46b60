// Package status holds the canonical record status values shared by users
// and shops.
package status

const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a known status value.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}
