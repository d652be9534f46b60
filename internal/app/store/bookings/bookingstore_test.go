package bookingstore_test

import (
	"testing"
	"time"

	bookingstore "github.com/dalemusser/shophub/internal/app/store/bookings"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute)
	b, err := store.Create(ctx, models.Booking{
		ShopID:       shop.ID,
		CustomerName: "Alex",
		Service:      "Haircut",
		StartsAt:     start,
		EndsAt:       start.Add(30 * time.Minute),
		CreatedBy:    owner.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if b.Status != models.BookingBooked {
		t.Errorf("status: got %q, want booked", b.Status)
	}
}

func TestStore_Create_BadRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	start := time.Now().UTC()
	_, err := store.Create(ctx, models.Booking{
		ShopID:       shop.ID,
		CustomerName: "Alex",
		StartsAt:     start,
		EndsAt:       start,
		CreatedBy:    owner.ID,
	})
	if err == nil {
		t.Error("zero-length booking should fail")
	}
}

func TestStore_ListByShopBetween(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	inside := fixtures.CreateBooking(ctx, shop.ID, owner.ID, "Inside", day.Add(10*time.Hour))
	fixtures.CreateBooking(ctx, shop.ID, owner.ID, "Before", day.Add(-10*time.Hour))
	fixtures.CreateBooking(ctx, shop.ID, owner.ID, "After", day.Add(40*time.Hour))

	got, err := store.ListByShopBetween(ctx, shop.ID, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListByShopBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Errorf("bookings in window: %+v, want only %q", got, inside.CustomerName)
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	b := fixtures.CreateBooking(ctx, shop.ID, owner.ID, "Alex", time.Now().UTC().Add(time.Hour))

	if err := store.UpdateStatus(ctx, shop.ID, b.ID, models.BookingCancelled); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, shop.ID, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.BookingCancelled {
		t.Errorf("status: got %q, want cancelled", got.Status)
	}

	if err := store.UpdateStatus(ctx, shop.ID, b.ID, "postponed"); err == nil {
		t.Error("unknown status should fail")
	}
}

func TestStore_CountUpcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	now := time.Now().UTC()
	fixtures.CreateBooking(ctx, shop.ID, owner.ID, "Future", now.Add(2*time.Hour))
	fixtures.CreateBooking(ctx, shop.ID, owner.ID, "Past", now.Add(-2*time.Hour))

	n, err := store.CountUpcoming(ctx, shop.ID, now)
	if err != nil {
		t.Fatalf("CountUpcoming failed: %v", err)
	}
	if n != 1 {
		t.Errorf("upcoming: got %d, want 1", n)
	}
}
