package membershipstore_test

import (
	"errors"
	"testing"

	membershipstore "github.com/dalemusser/shophub/internal/app/store/memberships"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)

	if err := store.Add(ctx, shop.ID, staff.ID, models.RoleStaff); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var m models.ShopMembership
	err := db.Collection("shop_memberships").FindOne(ctx, bson.M{
		"shop_id": shop.ID,
		"user_id": staff.ID,
	}).Decode(&m)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if m.Role != models.RoleStaff {
		t.Errorf("Role: got %q, want staff", m.Role)
	}
	if m.ShopName != "Corner Cuts" {
		t.Errorf("ShopName not denormalized: got %q", m.ShopName)
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)

	if err := store.Add(ctx, shop.ID, staff.ID, models.RoleStaff); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	err := store.Add(ctx, shop.ID, staff.ID, models.RoleManager)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("second Add: got %v, want ErrDuplicateMembership", err)
	}
}

func TestStore_Add_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)

	if err := store.Add(ctx, shop.ID, staff.ID, models.Role("janitor")); err == nil {
		t.Error("Add with invalid role should fail")
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)
	fixtures.CreateMembership(ctx, shop.ID, staff.ID, shop.Name, models.RoleStaff)

	if err := store.Remove(ctx, shop.ID, staff.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	exists, err := store.Exists(ctx, shop.ID, staff.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("membership still exists after Remove")
	}
}

func TestStore_Remove_Owner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	err := store.Remove(ctx, shop.ID, owner.ID)
	if !errors.Is(err, membershipstore.ErrOwnerMembership) {
		t.Errorf("Remove(owner): got %v, want ErrOwnerMembership", err)
	}
}

func TestStore_Remove_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	outsider := fixtures.CreateUser(ctx, "Outsider", "out@example.com", models.TierMember)

	err := store.Remove(ctx, shop.ID, outsider.ID)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("Remove(missing): got %v, want ErrNoDocuments", err)
	}
}

func TestStore_UpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)
	fixtures.CreateMembership(ctx, shop.ID, staff.ID, shop.Name, models.RoleStaff)

	if err := store.UpdateRole(ctx, shop.ID, staff.ID, models.RoleManager); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}

	role, err := store.GetRole(ctx, shop.ID, staff.ID)
	if err != nil {
		t.Fatalf("GetRole failed: %v", err)
	}
	if role != models.RoleManager {
		t.Errorf("role after update: got %q, want manager", role)
	}

	// Owner role cannot be granted or taken through this path.
	if err := store.UpdateRole(ctx, shop.ID, staff.ID, models.RoleOwner); err == nil {
		t.Error("UpdateRole to owner should fail")
	}
	if err := store.UpdateRole(ctx, shop.ID, owner.ID, models.RoleStaff); !errors.Is(err, membershipstore.ErrOwnerMembership) {
		t.Errorf("UpdateRole(owner): got %v, want ErrOwnerMembership", err)
	}
}

func TestStore_ListByUser_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	user := fixtures.CreateUser(ctx, "Worker", "worker@example.com", models.TierMember)

	first := fixtures.CreateShop(ctx, "First Shop", owner.ID)
	second := fixtures.CreateShop(ctx, "Second Shop", owner.ID)
	fixtures.CreateMembership(ctx, first.ID, user.ID, first.Name, models.RoleStaff)
	fixtures.CreateMembership(ctx, second.ID, user.ID, second.Name, models.RoleManager)

	list, err := store.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d memberships, want 2", len(list))
	}
	if list[0].ShopID != first.ID || list[1].ShopID != second.ID {
		t.Errorf("memberships out of creation order: %+v", list)
	}
	if list[1].Role != models.RoleManager || list[1].ShopName != "Second Shop" {
		t.Errorf("read model fields wrong: %+v", list[1])
	}
}

func TestStore_RefreshShopName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Old Name", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)
	fixtures.CreateMembership(ctx, shop.ID, staff.ID, shop.Name, models.RoleStaff)

	if err := store.RefreshShopName(ctx, shop.ID, "New Name"); err != nil {
		t.Fatalf("RefreshShopName failed: %v", err)
	}

	list, err := store.ListByUser(ctx, staff.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 1 || list[0].ShopName != "New Name" {
		t.Errorf("denormalized name not refreshed: %+v", list)
	}
}
