// internal/app/store/shops/shopstore.go
package shopstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/status"
	"github.com/dalemusser/shophub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("shops")}
}

// ErrDuplicateShop is returned when an owner already has a shop with this
// name.
var ErrDuplicateShop = errors.New("you already have a shop with this name")

// Create inserts a new shop. Name uniqueness is per owner, enforced by the
// (owner_id, name_ci) unique index. Description must already be sanitized.
func (s *Store) Create(ctx context.Context, shop models.Shop) (models.Shop, error) {
	now := time.Now().UTC()
	shop.ID = primitive.NewObjectID()
	shop.NameCI = text.Fold(shop.Name)
	if shop.Status == "" {
		shop.Status = status.Active
	}
	shop.CreatedAt = now
	shop.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, shop); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Shop{}, ErrDuplicateShop
		}
		return models.Shop{}, err
	}
	return shop, nil
}

// GetByID loads a shop by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Shop, error) {
	var shop models.Shop
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&shop); err != nil {
		return models.Shop{}, err
	}
	return shop, nil
}

// GetByIDs loads multiple shops by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Shop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var shops []models.Shop
	if err := cur.All(ctx, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// CountByOwner returns how many shops the user owns, for tier limits.
func (s *Store) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}

// Update modifies a shop's mutable fields and refreshes UpdatedAt. Only
// non-zero fields are written. Description must already be sanitized.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, shop models.Shop) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if shop.Name != "" {
		set["name"] = shop.Name
		set["name_ci"] = text.Fold(shop.Name)
	}
	if shop.Description != "" {
		set["description"] = shop.Description
	}
	if shop.Address != "" {
		set["address"] = shop.Address
	}
	if shop.OpeningHours != nil {
		set["opening_hours"] = shop.OpeningHours
	}
	if shop.Status != "" {
		set["status"] = shop.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateShop
		}
		return err
	}
	return nil
}

// Rename changes the shop name. The caller is responsible for refreshing
// the denormalized name on memberships in the same request.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateShop
	}
	return err
}

// Delete removes a shop by ID. Returns the number of documents deleted
// (0 or 1). Memberships, inventory, and bookings are removed by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
