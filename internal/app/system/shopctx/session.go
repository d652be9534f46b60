package shopctx

import (
	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is the active-shop state machine for one principal. It owns the
// membership list, the in-memory selection, and any fetched shop detail.
// Lifecycle is bound to authentication: a Session is built per request from
// the signed-in user and discarded with it. It is not safe for concurrent
// use; each request works on its own instance.
type Session struct {
	memberships []models.Membership
	loaded      bool
	active      *Selection
	detail      *models.Shop
}

// NewSession creates a session over the given membership list. loaded=false
// means the list could not be fetched and resolution must defer.
func NewSession(memberships []models.Membership, loaded bool) *Session {
	return &Session{memberships: memberships, loaded: loaded}
}

// Resolve reconciles the URL shop segment and the persisted selection
// against the membership list.
//
// The candidate identifier is the URL value when present, else the persisted
// value. Lookup is by identifier only, never by display name, so two shops
// sharing a name cannot collide. A candidate missing from the membership
// list (stale or revoked) resolves to no shop and asks the caller to clear
// the stored selection; a matching candidate resolves to that membership's
// role and asks the caller to (re)write the store. Unparseable identifiers
// are treated as absent.
func (s *Session) Resolve(urlID, persistedID string) Resolution {
	if !s.loaded {
		return Resolution{Code: StateLoading, Role: models.RoleNone, Persist: PersistKeep}
	}

	candidate := urlID
	if candidate == "" {
		candidate = persistedID
	}
	if candidate == "" {
		s.active = nil
		s.detail = nil
		return Resolution{Code: StateNone, Role: models.RoleNone, Persist: PersistKeep}
	}

	oid, err := primitive.ObjectIDFromHex(candidate)
	if err != nil {
		// Malformed stored value is the same as no stored value.
		s.active = nil
		s.detail = nil
		return Resolution{Code: StateNone, Role: models.RoleNone, Persist: PersistClear}
	}

	m, ok := s.membership(oid)
	if !ok {
		s.active = nil
		s.detail = nil
		return Resolution{Code: StateNone, Role: models.RoleNone, Persist: PersistClear}
	}

	sel := Selection{ShopID: m.ShopID, ShopName: m.ShopName, Role: m.Role}
	s.setActive(sel)
	return Resolution{Code: StateActive, Shop: &sel, Role: m.Role, Persist: PersistWrite}
}

// Select records an explicit shop choice. The identifier must be in the
// current membership list; anything else is a caller bug and leaves state
// untouched. Fetching richer shop detail is the caller's job and its failure
// must not undo the selection: role gating works from membership data alone.
func (s *Session) Select(shopID primitive.ObjectID) (Selection, error) {
	if !s.loaded {
		return Selection{}, ErrNotLoaded
	}
	m, ok := s.membership(shopID)
	if !ok {
		return Selection{}, ErrNotMember
	}
	sel := Selection{ShopID: m.ShopID, ShopName: m.ShopName, Role: m.Role}
	s.setActive(sel)
	return sel, nil
}

// ApplyDetail commits a fetched shop detail only if it still matches the
// active selection. A detail result that arrives after the user cleared or
// switched shops is discarded; the return value reports whether it was
// applied.
func (s *Session) ApplyDetail(shopID primitive.ObjectID, shop models.Shop) bool {
	if s.active == nil || s.active.ShopID != shopID {
		return false
	}
	s.detail = &shop
	return true
}

// Clear drops the active selection and any detail. Idempotent.
func (s *Session) Clear() {
	s.active = nil
	s.detail = nil
}

// SetPrincipal swaps in a new membership list and re-checks the selection
// invariant: a selection pointing at a shop no longer in the list is
// invalidated, even if it was made before the list arrived. A membership
// whose role changed updates the exposed role in place.
func (s *Session) SetPrincipal(memberships []models.Membership, loaded bool) {
	s.memberships = memberships
	s.loaded = loaded
	if s.active == nil || !loaded {
		return
	}
	m, ok := s.membership(s.active.ShopID)
	if !ok {
		s.Clear()
		return
	}
	s.active.ShopName = m.ShopName
	s.active.Role = m.Role
}

// Role is RoleNone whenever there is no active selection, and exactly the
// membership's role otherwise. It is never inferred from the URL alone.
func (s *Session) Role() models.Role {
	if s.active == nil {
		return models.RoleNone
	}
	return s.active.Role
}

// Active returns the current selection, or nil when no shop is active.
func (s *Session) Active() *Selection {
	return s.active
}

// Detail returns the fetched shop detail, or nil while it is unavailable.
// Callers must render a degraded view rather than fail when this is nil.
func (s *Session) Detail() *models.Shop {
	return s.detail
}

// Loaded reports whether the membership list is available.
func (s *Session) Loaded() bool {
	return s.loaded
}

// Memberships returns the principal's membership list in original order.
func (s *Session) Memberships() []models.Membership {
	return s.memberships
}

func (s *Session) membership(shopID primitive.ObjectID) (models.Membership, bool) {
	for _, m := range s.memberships {
		if m.ShopID == shopID {
			return m, true
		}
	}
	return models.Membership{}, false
}

func (s *Session) setActive(sel Selection) {
	if s.active != nil && s.active.ShopID != sel.ShopID {
		// Switching shops invalidates detail fetched for the old one.
		s.detail = nil
	}
	if s.active == nil {
		s.detail = nil
	}
	s.active = &sel
}
