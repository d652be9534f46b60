// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/normalize"
	"github.com/dalemusser/shophub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invites")}
}

// DefaultTTL is how long an invite link stays valid.
const DefaultTTL = 7 * 24 * time.Hour

var (
	errBadRole = errors.New(`invite role must be "manager" or "staff"`)

	// ErrDuplicateInvite is returned when a pending invite for this email
	// already exists on the shop.
	ErrDuplicateInvite = errors.New("this email already has a pending invite for this shop")

	// ErrInviteExpired is returned by Accept for an invite past its expiry.
	ErrInviteExpired = errors.New("this invite has expired")

	// ErrInviteUsed is returned by Accept for an already-accepted invite.
	ErrInviteUsed = errors.New("this invite has already been used")
)

// Create issues a new invite with a fresh random token.
func (s *Store) Create(ctx context.Context, shopID primitive.ObjectID, email string, role models.Role, invitedBy primitive.ObjectID) (models.Invite, error) {
	if !models.IsAssignableRole(role) {
		return models.Invite{}, errBadRole
	}
	now := time.Now().UTC()
	inv := models.Invite{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		Email:     normalize.Email(email),
		Role:      role,
		Token:     uuid.NewString(),
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(DefaultTTL),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invite{}, ErrDuplicateInvite
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByToken loads an invite by its link token.
func (s *Store) GetByToken(ctx context.Context, token string) (models.Invite, error) {
	var inv models.Invite
	if err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&inv); err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// ListPendingByShop returns a shop's open invites, newest first.
func (s *Store) ListPendingByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{
		"shop_id":     shopID,
		"accepted_at": bson.M{"$exists": false},
		"expires_at":  bson.M{"$gt": time.Now().UTC()},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Invite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingByEmail returns the open invites addressed to an email,
// newest first. The email must already be normalized.
func (s *Store) ListPendingByEmail(ctx context.Context, email string) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{
		"email":       email,
		"accepted_at": bson.M{"$exists": false},
		"expires_at":  bson.M{"$gt": time.Now().UTC()},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Invite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySender returns every invite a user has issued, newest first,
// including accepted and expired ones so the sender can see the outcome.
func (s *Store) ListBySender(ctx context.Context, userID primitive.ObjectID) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"invited_by": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Invite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept marks the invite used by the given user. It is a compare-and-set
// on accepted_at so two concurrent accepts cannot both succeed.
func (s *Store) Accept(ctx context.Context, token string, userID primitive.ObjectID) (models.Invite, error) {
	inv, err := s.GetByToken(ctx, token)
	if err != nil {
		return models.Invite{}, err
	}
	now := time.Now().UTC()
	if inv.Accepted() {
		return models.Invite{}, ErrInviteUsed
	}
	if inv.Expired(now) {
		return models.Invite{}, ErrInviteExpired
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"token": token, "accepted_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"accepted_at": now, "accepted_by": userID}})
	if err != nil {
		return models.Invite{}, err
	}
	if res.MatchedCount == 0 {
		return models.Invite{}, ErrInviteUsed
	}
	inv.AcceptedAt = &now
	inv.AcceptedBy = &userID
	return inv, nil
}

// Revoke deletes a pending invite.
func (s *Store) Revoke(ctx context.Context, shopID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "shop_id": shopID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Decline deletes a pending invite, but only one addressed to the given
// email, so a recipient cannot decline someone else's invite by id.
func (s *Store) Decline(ctx context.Context, id primitive.ObjectID, email string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":         id,
		"email":       email,
		"accepted_at": bson.M{"$exists": false},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveByShop deletes every invite of a shop, as part of shop deletion.
func (s *Store) RemoveByShop(ctx context.Context, shopID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"shop_id": shopID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
