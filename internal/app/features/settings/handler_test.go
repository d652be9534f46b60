package settings_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	"github.com/dalemusser/shophub/internal/app/features/settings"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestEnv(t *testing.T) (*settings.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return settings.NewHandler(db, uierrors.NewErrorLogger(logger), logger), db
}

func call(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		h(rec, req)
	}()
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionUserFor(u models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.Name,
		Email:       u.Email,
		Tier:        u.Tier,
		ShopsLoaded: true,
	}
}

func TestHandleUpdateAccount(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Riley", "riley@example.com", models.TierMember)

	req := postForm("/settings/account", url.Values{
		"name":     {"Riley Updated"},
		"bookable": {"on"},
	})
	req = auth.WithTestUser(req, sessionUserFor(u))

	rec := call(h.HandleUpdateAccount, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if got.Name != "Riley Updated" || !got.Bookable {
		t.Errorf("profile: got name %q bookable %v", got.Name, got.Bookable)
	}
}

func TestHandleUpdateAccount_EmptyName(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Riley", "riley@example.com", models.TierMember)

	req := postForm("/settings/account", url.Values{"name": {"   "}})
	req = auth.WithTestUser(req, sessionUserFor(u))

	rec := call(h.HandleUpdateAccount, req)
	if rec.Code == http.StatusSeeOther {
		t.Error("blank name should be rejected")
	}
}

func TestHandleChangeTier_Upgrade(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Riley", "riley@example.com", models.TierMember)

	req := postForm("/settings/billing", url.Values{"tier": {"Pro"}})
	req = auth.WithTestUser(req, sessionUserFor(u))

	rec := call(h.HandleChangeTier, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if got.Tier != models.TierPro {
		t.Errorf("tier: got %q, want pro", got.Tier)
	}
}

func TestHandleChangeTier_DowngradeWithShopsRefused(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	fixtures.CreateShop(ctx, "Corner Cuts", u.ID)

	req := postForm("/settings/billing", url.Values{"tier": {"member"}})
	req = auth.WithTestUser(req, sessionUserFor(u))

	rec := call(h.HandleChangeTier, req)
	if rec.Code == http.StatusSeeOther {
		t.Error("downgrade to member while owning shops should be refused")
	}

	got, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if got.Tier != models.TierStarter {
		t.Errorf("tier changed to %q", got.Tier)
	}
}

func TestHandleChangeTier_UnknownTier(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Riley", "riley@example.com", models.TierMember)

	req := postForm("/settings/billing", url.Values{"tier": {"platinum"}})
	req = auth.WithTestUser(req, sessionUserFor(u))

	rec := call(h.HandleChangeTier, req)
	if rec.Code == http.StatusSeeOther {
		t.Error("unknown tier should be rejected")
	}
}
