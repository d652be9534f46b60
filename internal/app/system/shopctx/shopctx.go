// Package shopctx derives, persists, and exposes the currently active shop
// and the caller's role within it.
//
// Three inputs can disagree about which shop is active: the shop ID embedded
// in the URL path, the selection persisted in the session cookie, and the
// authoritative membership list loaded for the signed-in user. This package
// reconciles them into a single (shop, role) result per request and gates
// shop-scoped routes on it.
//
// Resolution never fails: absent or corrupt input degrades to a well-defined
// state (loading, or no shop selected), and the worst case everywhere is the
// global no-shop view.
package shopctx

import (
	"errors"

	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State is the outcome class of a resolution. A resolution is always exactly
// one of these; there is no partial state with a shop but no role.
type State int

const (
	// StateLoading means the membership list is not available yet, so no
	// shop is asserted. Dependent navigation must not flash an incorrect
	// view while in this state.
	StateLoading State = iota

	// StateNone means resolution completed with no active shop; the exposed
	// role is RoleNone.
	StateNone

	// StateActive means a shop is active and the role comes from the
	// matching membership entry.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNone:
		return "none"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// PersistOp is the storage side effect a resolution asks its caller to
// perform. The resolver itself never touches storage; declaring the effect
// keeps it testable without cookies or a live server.
type PersistOp int

const (
	// PersistKeep leaves the stored selection as it is.
	PersistKeep PersistOp = iota

	// PersistWrite stores the resolved selection.
	PersistWrite

	// PersistClear removes any stored selection (stale or revoked).
	PersistClear
)

// Selection identifies the active shop. ShopName is denormalized for display
// before the next detail fetch; Role is the membership role at resolution
// time.
type Selection struct {
	ShopID   primitive.ObjectID `json:"id"`
	ShopName string             `json:"name"`
	Role     models.Role        `json:"role"`
}

// Resolution is the result of reconciling the three inputs.
// Shop is non-nil exactly when Code is StateActive, and Role is RoleNone
// exactly when it is not.
type Resolution struct {
	Code    State
	Shop    *Selection
	Role    models.Role
	Persist PersistOp
}

var (
	// ErrNotMember reports a Select call for a shop the user does not belong
	// to. The UI must never offer such a choice; the call is rejected
	// without touching existing state.
	ErrNotMember = errors.New("user is not a member of this shop")

	// ErrNotLoaded reports a Select call before the membership list is
	// available.
	ErrNotLoaded = errors.New("membership list not loaded")
)
