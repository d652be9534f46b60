package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/status"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user on the given tier.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, tier models.Tier) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		EmailCI:      email,
		PasswordHash: "$2a$10$test-hash-not-a-real-credential",
		Tier:         tier,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateStarterUser creates a user on the starter tier.
func (f *Fixtures) CreateStarterUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.TierStarter)
}

// CreateDisabledUser creates a user whose account has been deactivated.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, email, models.TierMember)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		map[string]any{"$set": map[string]any{"active": false}}); err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Active = false
	return u
}

// CreateShop creates an active shop owned by ownerID, including the owner's
// membership document.
func (f *Fixtures) CreateShop(ctx context.Context, name string, ownerID primitive.ObjectID) models.Shop {
	f.t.Helper()

	now := time.Now().UTC()
	shop := models.Shop{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		Status:    status.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("shops").InsertOne(ctx, shop); err != nil {
		f.t.Fatalf("failed to create test shop: %v", err)
	}
	f.CreateMembership(ctx, shop.ID, ownerID, shop.Name, models.RoleOwner)
	return shop
}

// CreateMembership inserts a membership document directly.
func (f *Fixtures) CreateMembership(ctx context.Context, shopID, userID primitive.ObjectID, shopName string, role models.Role) models.ShopMembership {
	f.t.Helper()

	m := models.ShopMembership{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		UserID:    userID,
		ShopName:  shopName,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("shop_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateInventoryItem inserts an active inventory item for a shop.
func (f *Fixtures) CreateInventoryItem(ctx context.Context, shopID primitive.ObjectID, name string, quantity int) models.InventoryItem {
	f.t.Helper()

	now := time.Now().UTC()
	item := models.InventoryItem{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		Name:      name,
		NameCI:    text.Fold(name),
		Quantity:  quantity,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("inventory_items").InsertOne(ctx, item); err != nil {
		f.t.Fatalf("failed to create test inventory item: %v", err)
	}
	return item
}

// CreateBooking inserts a booked appointment starting at startsAt and
// lasting one hour.
func (f *Fixtures) CreateBooking(ctx context.Context, shopID, createdBy primitive.ObjectID, customer string, startsAt time.Time) models.Booking {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Booking{
		ID:           primitive.NewObjectID(),
		ShopID:       shopID,
		CustomerName: customer,
		StartsAt:     startsAt,
		EndsAt:       startsAt.Add(time.Hour),
		Status:       models.BookingBooked,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("bookings").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test booking: %v", err)
	}
	return b
}

// CreateInvite inserts a pending invite that expires in a week.
func (f *Fixtures) CreateInvite(ctx context.Context, shopID, invitedBy primitive.ObjectID, email string, role models.Role) models.Invite {
	f.t.Helper()

	now := time.Now().UTC()
	inv := models.Invite{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		Email:     email,
		Role:      role,
		Token:     uuid.NewString(),
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
	}
	if _, err := f.db.Collection("invites").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test invite: %v", err)
	}
	return inv
}
