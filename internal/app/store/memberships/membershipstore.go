// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/shophub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	shops *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("shop_memberships"),
		shops: db.Collection("shops"),
	}
}

var (
	errBadRole = errors.New(`role must be "owner", "manager", or "staff"`)

	// ErrDuplicateMembership is returned when the user is already a member
	// of the shop.
	ErrDuplicateMembership = errors.New("user is already a member of this shop")

	// ErrOwnerMembership is returned by Remove and UpdateRole for the owner
	// membership, which only shop deletion may touch.
	ErrOwnerMembership = errors.New("the owner membership cannot be changed")
)

// Add creates a membership. The shop must exist; its name is denormalized
// onto the document so membership lists render without a second lookup.
func (s *Store) Add(ctx context.Context, shopID, userID primitive.ObjectID, role models.Role) error {
	if !models.IsValidMembershipRole(role) {
		return errBadRole
	}

	var shop models.Shop
	if err := s.shops.FindOne(ctx, bson.M{"_id": shopID}).Decode(&shop); err != nil {
		return err
	}

	doc := models.ShopMembership{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		UserID:    userID,
		ShopName:  shop.Name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Remove deletes the membership for (shopID, userID). The owner membership
// is refused; delete the shop instead.
func (s *Store) Remove(ctx context.Context, shopID, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"shop_id": shopID,
		"user_id": userID,
		"role":    bson.M{"$ne": models.RoleOwner},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		// Either no membership or it was the owner's.
		exists, err := s.Exists(ctx, shopID, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrOwnerMembership
		}
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateRole changes a member's role. Only manager and staff are
// assignable; the owner role is fixed at creation.
func (s *Store) UpdateRole(ctx context.Context, shopID, userID primitive.ObjectID, role models.Role) error {
	if !models.IsAssignableRole(role) {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx, bson.M{
		"shop_id": shopID,
		"user_id": userID,
		"role":    bson.M{"$ne": models.RoleOwner},
	}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		exists, err := s.Exists(ctx, shopID, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrOwnerMembership
		}
		return mongo.ErrNoDocuments
	}
	return nil
}

// Exists reports whether the user has any membership in the shop.
func (s *Store) Exists(ctx context.Context, shopID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"shop_id": shopID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRole returns the user's role in the shop, or RoleNone with
// mongo.ErrNoDocuments when there is no membership.
func (s *Store) GetRole(ctx context.Context, shopID, userID primitive.ObjectID) (models.Role, error) {
	var m models.ShopMembership
	if err := s.c.FindOne(ctx, bson.M{"shop_id": shopID, "user_id": userID}).Decode(&m); err != nil {
		return models.RoleNone, err
	}
	return m.Role, nil
}

// ListByUser returns the user's memberships as the session read model, in
// creation order.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
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

// ListByShop returns every membership document for a shop, owners first,
// then by creation time.
func (s *Store) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.ShopMembership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"shop_id": shopID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.ShopMembership
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	rank := map[models.Role]int{models.RoleOwner: 0, models.RoleManager: 1, models.RoleStaff: 2}
	sort.SliceStable(docs, func(i, j int) bool {
		return rank[docs[i].Role] < rank[docs[j].Role]
	})
	return docs, nil
}

// RefreshShopName rewrites the denormalized shop name on every membership
// of the shop, after a rename.
func (s *Store) RefreshShopName(ctx context.Context, shopID primitive.ObjectID, name string) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"shop_id": shopID}, bson.M{"$set": bson.M{"shop_name": name}})
	return err
}

// RemoveByShop deletes every membership of a shop, as part of shop
// deletion.
func (s *Store) RemoveByShop(ctx context.Context, shopID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"shop_id": shopID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
