package userstore

import (
	"context"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher: it loads the user document and the
// membership list fresh on every request, so role changes and revocations
// take effect on the next page load rather than at next login.
type Fetcher struct {
	users       *mongo.Collection
	memberships *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users:       db.Collection("users"),
		memberships: db.Collection("shop_memberships"),
	}
}

// Fetch retrieves a user by ID. A missing, malformed, or disabled user
// returns (nil, nil): the session is treated as unauthenticated. A database
// error returns (nil, err); the caller degrades to a principal with
// ShopsLoaded=false instead of logging the user out over a hiccup.
func (f *Fetcher) Fetch(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":      1,
		"name":     1,
		"email":    1,
		"tier":     1,
		"active":   1,
		"bookable": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}

	su := &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		Tier:     u.Tier,
		Active:   u.Active,
		Bookable: u.Bookable,
	}

	shops, err := f.fetchMemberships(ctx, oid)
	if err != nil {
		// Partial principal: identity is known but the membership list is
		// not. Shop resolution defers until a request can load it.
		return su, err
	}
	su.Shops = shops
	su.ShopsLoaded = true
	return su, nil
}

// fetchMemberships returns the user's memberships in creation order, the
// order the shop list and sidebar display them.
func (f *Fetcher) fetchMemberships(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := f.memberships.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.ShopMembership
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.Membership, len(docs))
	for i, d := range docs {
		out[i] = models.Membership{ShopID: d.ShopID, ShopName: d.ShopName, Role: d.Role}
	}
	return out, nil
}
