// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/normalize"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when creating a user with an email that
	// already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadTier        = errors.New(`tier must be "member", "starter", or "pro"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads multiple users by their ObjectIDs, for displaying
// membership lists.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields. The
// caller supplies PasswordHash already hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = u.Email
	if u.Tier == "" {
		u.Tier = models.DefaultTier
	}
	if !models.IsValidTier(u.Tier) {
		return models.User{}, errBadTier
	}
	u.Active = true
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile modifies the account fields a user edits themselves.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, bookable bool) error {
	name = normalize.Name(name)
	set := bson.M{
		"bookable":   bookable,
		"updated_at": time.Now().UTC(),
	}
	if name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// UpdateTier changes a user's subscription tier.
func (s *Store) UpdateTier(ctx context.Context, id primitive.ObjectID, tier models.Tier) error {
	if !models.IsValidTier(tier) {
		return errBadTier
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"tier":       tier,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// UpdatePasswordHash replaces the stored password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// SetActive enables or disables a user account.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"active":     active,
		"updated_at": time.Now().UTC(),
	}})
	return err
}
