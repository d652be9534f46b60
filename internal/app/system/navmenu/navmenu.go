// Package navmenu declares the sidebar navigation and filters it down to
// what the signed-in user may see. Menus come in two panels: the global
// panel (shop list, central inventory, settings) and the per-shop panel
// (team, bookings, inventory, shop settings). Entries carry an allowed tier
// set and, for shop entries, an allowed role set; filtering happens here so
// templates only ever range over visible entries.
package navmenu

import (
	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a single navigation link.
//
// An empty Tiers set means every tier may see the item. An empty Roles set
// means the item has no role restriction. A non-empty Roles set hides the
// item from anyone without a shop role, including users with no active
// shop.
type Item struct {
	ID    string
	Label string
	Link  string
	Tiers []models.Tier
	Roles []models.Role
}

// Group is a labelled set of items. Groups carry their own tier and role
// sets so a whole section can be gated without repeating the sets on every
// child.
type Group struct {
	ID    string
	Label string
	Tiers []models.Tier
	Roles []models.Role
	Items []Item
}

// shopTiers are the tiers that can own and run shops. The base tier books
// services but never manages a shop of its own.
var shopTiers = []models.Tier{models.TierStarter, models.TierPro}

// managerial is the role set for entries staff should not see.
var managerial = []models.Role{models.RoleOwner, models.RoleManager}

// Visible filters groups for one user: an entry survives when its tier set
// allows the user's tier and its role set is empty or allows the user's
// role. Groups left without items drop out entirely. The input is never
// mutated.
func Visible(groups []Group, tier models.Tier, role models.Role) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if !tierAllowed(g.Tiers, tier) || !roleAllowed(g.Roles, role) {
			continue
		}
		items := make([]Item, 0, len(g.Items))
		for _, it := range g.Items {
			if tierAllowed(it.Tiers, tier) && roleAllowed(it.Roles, role) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		g.Items = items
		out = append(out, g)
	}
	return out
}

func tierAllowed(allowed []models.Tier, tier models.Tier) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == tier {
			return true
		}
	}
	return false
}

func roleAllowed(allowed []models.Role, role models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	if role == models.RoleNone {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// GlobalMenu builds the panel shown while no shop is active. The user's
// shops appear as direct links inside the My Shops group, one per
// membership, in the order the membership list arrives.
func GlobalMenu(memberships []models.Membership) []Group {
	shops := Group{
		ID:    "shops",
		Label: "My Shops",
		Items: []Item{
			{ID: "all-shops", Label: "All Shops", Link: "/shops", Tiers: shopTiers},
		},
	}
	for _, m := range memberships {
		shops.Items = append(shops.Items, Item{
			ID:    "shop-" + m.ShopID.Hex(),
			Label: m.ShopName,
			Link:  "/shops/" + m.ShopID.Hex() + "/overview",
		})
	}
	shops.Items = append(shops.Items, Item{
		ID: "create-shop", Label: "+ Create Shop", Link: "/shops/new", Tiers: shopTiers,
	})

	return []Group{
		shops,
		{
			ID:    "inbox",
			Label: "Inbox",
			Items: []Item{
				{ID: "inbox", Label: "Invites", Link: "/inbox"},
			},
		},
		{
			ID:    "central-inventory",
			Label: "Central Inventory",
			Tiers: shopTiers,
			Items: []Item{
				{ID: "inventory", Label: "All Items", Link: "/central-inventory", Tiers: shopTiers},
				{ID: "create-item", Label: "Add Item", Link: "/central-inventory/new", Tiers: shopTiers},
			},
		},
		{
			ID:    "settings",
			Label: "Settings",
			Items: []Item{
				{ID: "account", Label: "Account", Link: "/settings/account"},
				{ID: "billing", Label: "Billing", Link: "/settings/billing", Tiers: shopTiers},
			},
		},
	}
}

// ShopMenu builds the panel shown while the given shop is active. Links are
// absolute so the menu stays correct when rendered from any page.
func ShopMenu(shopID primitive.ObjectID) []Group {
	base := "/shops/" + shopID.Hex()

	return []Group{
		{
			ID:    "team",
			Label: "Team",
			Roles: managerial,
			Items: []Item{
				{ID: "shop-team", Label: "All Members", Link: base + "/team", Roles: managerial},
				{ID: "invite", Label: "Invite Member", Link: base + "/team/invite", Roles: managerial},
			},
		},
		{
			ID:    "bookings",
			Label: "Bookings",
			Items: []Item{
				{ID: "calendar", Label: "Calendar", Link: base + "/calendar"},
				{ID: "all-bookings", Label: "All Bookings", Link: base + "/bookings", Roles: managerial},
				{ID: "add-booking", Label: "Add Booking", Link: base + "/bookings/new", Roles: managerial},
			},
		},
		{
			ID:    "inventory",
			Label: "Shop Inventory",
			Roles: managerial,
			Items: []Item{
				{ID: "shop-items", Label: "All Items", Link: base + "/inventory", Roles: managerial},
				{ID: "add-item", Label: "Add Item", Link: base + "/inventory/new", Roles: managerial},
			},
		},
		{
			ID:    "shop-settings",
			Label: "Shop Settings",
			Roles: managerial,
			Items: []Item{
				{ID: "general", Label: "General", Link: base + "/settings", Roles: managerial},
			},
		},
	}
}
