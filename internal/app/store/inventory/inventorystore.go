// internal/app/store/inventory/inventorystore.go
package inventorystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shophub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("inventory_items")}
}

// ErrDuplicateItem is returned when the shop already has an item with this
// name.
var ErrDuplicateItem = errors.New("this shop already has an item with this name")

// Create inserts a new inventory item for a shop.
func (s *Store) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	now := time.Now().UTC()
	item.ID = primitive.NewObjectID()
	item.NameCI = text.Fold(item.Name)
	item.Active = true
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, item); err != nil {
		if wafflemongo.IsDup(err) {
			return models.InventoryItem{}, ErrDuplicateItem
		}
		return models.InventoryItem{}, err
	}
	return item, nil
}

// GetByID loads an item scoped to a shop. Scoping by shop here means a
// handler can never read another tenant's item through a guessed ID.
func (s *Store) GetByID(ctx context.Context, shopID, id primitive.ObjectID) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.c.FindOne(ctx, bson.M{"_id": id, "shop_id": shopID}).Decode(&item)
	if err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// ListByShop returns a shop's active items sorted by name.
func (s *Store) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.InventoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"shop_id": shopID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []models.InventoryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByShops returns active items across several shops, for the central
// inventory view. Sorted by shop then name.
func (s *Store) ListByShops(ctx context.Context, shopIDs []primitive.ObjectID) ([]models.InventoryItem, error) {
	if len(shopIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "shop_id", Value: 1},
		{Key: "name_ci", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{"shop_id": bson.M{"$in": shopIDs}, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []models.InventoryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update modifies an item's mutable fields and refreshes UpdatedAt.
// Quantity and LowStock are always written since zero is meaningful.
func (s *Store) Update(ctx context.Context, shopID, id primitive.ObjectID, item models.InventoryItem) error {
	set := bson.M{
		"quantity":   item.Quantity,
		"low_stock":  item.LowStock,
		"updated_at": time.Now().UTC(),
	}
	if item.Name != "" {
		set["name"] = item.Name
		set["name_ci"] = text.Fold(item.Name)
	}
	if item.Category != "" {
		set["category"] = item.Category
	}
	if item.Unit != "" {
		set["unit"] = item.Unit
	}
	if item.PhotoURL != "" {
		set["photo_url"] = item.PhotoURL
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "shop_id": shopID}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateItem
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdjustQuantity applies a signed delta to an item's quantity.
func (s *Store) AdjustQuantity(ctx context.Context, shopID, id primitive.ObjectID, delta int) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "shop_id": shopID},
		bson.M{
			"$inc": bson.M{"quantity": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Deactivate soft-deletes an item so past bookings keep their references.
func (s *Store) Deactivate(ctx context.Context, shopID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "shop_id": shopID},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveByShop deletes every item of a shop, as part of shop deletion.
func (s *Store) RemoveByShop(ctx context.Context, shopID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"shop_id": shopID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
