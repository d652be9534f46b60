// internal/domain/models/roles.go
package models

// Role is a user's role within one shop. It lives on the membership, not
// the user: the same person can own one shop and be staff in another.
type Role string

// Canonical shop role identifiers, stored lowercase in the database and
// compared verbatim everywhere else.
const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"

	// RoleNone is the resolved role when no shop is active. It is never
	// stored.
	RoleNone Role = "none"
)

// MembershipRoles is the full set of roles a membership document may carry.
var MembershipRoles = []Role{RoleOwner, RoleManager, RoleStaff}

// AssignableRoles are the roles that can be granted through team forms and
// invites. Ownership is set at shop creation and never reassigned here.
var AssignableRoles = []Role{RoleManager, RoleStaff}

// IsValidMembershipRole reports whether r may appear on a stored
// membership.
func IsValidMembershipRole(r Role) bool {
	for _, v := range MembershipRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsAssignableRole reports whether r may be granted to a team member.
func IsAssignableRole(r Role) bool {
	for _, v := range AssignableRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Tier is a user's subscription level. It gates shop creation and the
// owner-side sections of the navigation; per-shop permissions come from
// the membership Role.
type Tier string

const (
	// TierMember books services but cannot own shops.
	TierMember Tier = "member"
	// TierStarter owns up to a small number of shops.
	TierStarter Tier = "starter"
	// TierPro owns unlimited shops.
	TierPro Tier = "pro"
)

// AllTiers is the full set of subscription tiers.
var AllTiers = []Tier{TierMember, TierStarter, TierPro}

// ShopOwnerTiers are the tiers allowed to create and own shops.
var ShopOwnerTiers = []Tier{TierStarter, TierPro}

// IsValidTier reports whether t names a subscription tier.
func IsValidTier(t Tier) bool {
	for _, v := range AllTiers {
		if t == v {
			return true
		}
	}
	return false
}

// CanOwnShops reports whether tier t may create and own shops.
func CanOwnShops(t Tier) bool {
	for _, v := range ShopOwnerTiers {
		if t == v {
			return true
		}
	}
	return false
}

// DefaultTier is assigned at registration.
const DefaultTier = TierMember

// StarterShopLimit caps how many shops a starter-tier user may own.
const StarterShopLimit = 3
