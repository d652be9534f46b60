// internal/app/store/bookings/bookingstore.go
package bookingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

var (
	errBadStatus = errors.New(`status must be "booked", "done", or "cancelled"`)
	errBadRange  = errors.New("booking must end after it starts")
)

func validStatus(s string) bool {
	return s == models.BookingBooked || s == models.BookingDone || s == models.BookingCancelled
}

// Create inserts a new booking for a shop.
func (s *Store) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	if !b.EndsAt.After(b.StartsAt) {
		return models.Booking{}, errBadRange
	}
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	if b.Status == "" {
		b.Status = models.BookingBooked
	}
	if !validStatus(b.Status) {
		return models.Booking{}, errBadStatus
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// GetByID loads a booking scoped to a shop.
func (s *Store) GetByID(ctx context.Context, shopID, id primitive.ObjectID) (models.Booking, error) {
	var b models.Booking
	err := s.c.FindOne(ctx, bson.M{"_id": id, "shop_id": shopID}).Decode(&b)
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// ListByShop returns a shop's bookings newest-first.
func (s *Store) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"shop_id": shopID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByShopBetween returns a shop's bookings overlapping [from, to), in
// start order, for the calendar view.
func (s *Store) ListByShopBetween(ctx context.Context, shopID primitive.ObjectID, from, to time.Time) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{
		"shop_id":   shopID,
		"starts_at": bson.M{"$lt": to},
		"ends_at":   bson.M{"$gt": from},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUpcoming returns how many bookings start at or after now, for the
// shop overview card.
func (s *Store) CountUpcoming(ctx context.Context, shopID primitive.ObjectID, now time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"shop_id":   shopID,
		"status":    models.BookingBooked,
		"starts_at": bson.M{"$gte": now},
	})
}

// UpdateStatus moves a booking between booked, done, and cancelled.
func (s *Store) UpdateStatus(ctx context.Context, shopID, id primitive.ObjectID, status string) error {
	if !validStatus(status) {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "shop_id": shopID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveByShop deletes every booking of a shop, as part of shop deletion.
func (s *Store) RemoveByShop(ctx context.Context, shopID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"shop_id": shopID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
