// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's tier, name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// TierMember, "", NilObjectID, false. Callers can trust that ok=true means
// a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (tier models.Tier, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return models.TierMember, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return models.TierMember, "", primitive.NilObjectID, false
	}
	return user.Tier, user.Name, userID, true
}

// Tier returns the current user's tier and whether a user is present.
func Tier(r *http.Request) (models.Tier, bool) {
	tier, _, _, ok := UserCtx(r)
	return tier, ok
}

// HasAnyTier reports whether the current request's user is on any of the
// given tiers. Returns false if no user is present.
func HasAnyTier(r *http.Request, tiers ...models.Tier) bool {
	cur, ok := Tier(r)
	if !ok {
		return false
	}
	for _, want := range tiers {
		if cur == want {
			return true
		}
	}
	return false
}

// CanCreateShops reports whether the current request's user is on a tier
// that may own shops.
func CanCreateShops(r *http.Request) bool {
	tier, ok := Tier(r)
	return ok && models.CanOwnShops(tier)
}
