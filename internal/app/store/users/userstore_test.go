package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		Name:         "  Pat Kim  ",
		Email:        "Pat@Example.COM",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Name != "Pat Kim" {
		t.Errorf("Name not trimmed: %q", u.Name)
	}
	if u.Email != "pat@example.com" {
		t.Errorf("Email not normalized: %q", u.Email)
	}
	if u.Tier != models.TierMember {
		t.Errorf("default tier: got %q, want member", u.Tier)
	}
	if !u.Active {
		t.Error("new user not active")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Name: "One", Email: "same@example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Name: "Two", Email: "SAME@example.com", PasswordHash: "h"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("second Create: got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Name: "Pat", Email: "pat@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "  PAT@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got user %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_UpdateTier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Name: "Pat", Email: "pat@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateTier(ctx, u.ID, models.TierPro); err != nil {
		t.Fatalf("UpdateTier failed: %v", err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Tier != models.TierPro {
		t.Errorf("tier: got %q, want pro", got.Tier)
	}

	if err := store.UpdateTier(ctx, u.ID, models.Tier("platinum")); err == nil {
		t.Error("UpdateTier with unknown tier should fail")
	}
}
