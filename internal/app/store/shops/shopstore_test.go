package shopstore_test

import (
	"errors"
	"testing"

	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shopstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")

	shop, err := store.Create(ctx, models.Shop{Name: "Corner Cuts", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if shop.ID.IsZero() {
		t.Error("no ID assigned")
	}
	if shop.Status != "active" {
		t.Errorf("status: got %q, want active", shop.Status)
	}

	got, err := store.GetByID(ctx, shop.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Corner Cuts" {
		t.Errorf("name: got %q", got.Name)
	}
}

func TestStore_Create_DuplicatePerOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shopstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	other := fixtures.CreateStarterUser(ctx, "Other", "other@example.com")

	if _, err := store.Create(ctx, models.Shop{Name: "Corner Cuts", OwnerID: owner.ID}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.Shop{Name: "corner cuts", OwnerID: owner.ID})
	if !errors.Is(err, shopstore.ErrDuplicateShop) {
		t.Errorf("same owner, same name: got %v, want ErrDuplicateShop", err)
	}

	// A different owner may reuse the name.
	if _, err := store.Create(ctx, models.Shop{Name: "Corner Cuts", OwnerID: other.ID}); err != nil {
		t.Errorf("different owner, same name: %v", err)
	}
}

func TestStore_CountByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shopstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	fixtures.CreateShop(ctx, "One", owner.ID)
	fixtures.CreateShop(ctx, "Two", owner.ID)

	n, err := store.CountByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("CountByOwner failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}

	n, err = store.CountByOwner(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CountByOwner failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count for stranger: got %d, want 0", n)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shopstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Old Name", owner.ID)

	if err := store.Rename(ctx, shop.ID, "New Name"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, err := store.GetByID(ctx, shop.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("name after rename: %q", got.Name)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shopstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	n, err := store.Delete(ctx, shop.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}

	n, err = store.Delete(ctx, shop.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete removed %d, want 0", n)
	}
}
