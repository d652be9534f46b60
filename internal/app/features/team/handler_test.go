package team_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	"github.com/dalemusser/shophub/internal/app/features/team"
	invitestore "github.com/dalemusser/shophub/internal/app/store/invites"
	membershipstore "github.com/dalemusser/shophub/internal/app/store/memberships"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestEnv(t *testing.T) (*team.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return team.NewHandler(db, "https://shophub.test", uierrors.NewErrorLogger(logger), logger), db
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

func TestHandleInvite_CreatesPendingInvite(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	form := url.Values{"email": {"New.Hire@Example.com"}, "role": {"staff"}}
	req := postForm("/shops/"+shop.ID.Hex()+"/team/invite", form)
	req = auth.WithTestUser(req, sessionUserFor(owner))
	req = shopctx.WithTestShop(req, shop.ID, shop.Name, models.RoleOwner)

	call(h.HandleInvite, req)

	pending, err := invitestore.New(db).ListPendingByShop(ctx, shop.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending invites: got %d, want 1", len(pending))
	}
	inv := pending[0]
	if inv.Email != "new.hire@example.com" || inv.Role != models.RoleStaff {
		t.Errorf("invite: got %+v", inv)
	}
	if inv.Token == "" {
		t.Error("invite has no token")
	}
}

func TestHandleAcceptInvite_CreatesMembership(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	hire := fixtures.CreateUser(ctx, "New Hire", "hire@example.com", models.TierMember)
	inv := fixtures.CreateInvite(ctx, shop.ID, owner.ID, hire.Email, models.RoleStaff)

	req := postForm("/invites/"+inv.Token, url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(hire))
	req = testutil.WithChiURLParam(req, "token", inv.Token)

	rec := call(h.HandleAcceptInvite, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	want := "/shops/" + shop.ID.Hex() + "/overview"
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("redirect: got %q, want %q", loc, want)
	}

	role, err := membershipstore.New(db).GetRole(ctx, shop.ID, hire.ID)
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if role != models.RoleStaff {
		t.Errorf("role: got %q, want staff", role)
	}
}

func TestHandleAcceptInvite_SecondAcceptRejected(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	hire := fixtures.CreateUser(ctx, "New Hire", "hire@example.com", models.TierMember)
	inv := fixtures.CreateInvite(ctx, shop.ID, owner.ID, hire.Email, models.RoleStaff)

	first := postForm("/invites/"+inv.Token, url.Values{})
	first = auth.WithTestUser(first, sessionUserFor(hire))
	first = testutil.WithChiURLParam(first, "token", inv.Token)
	if rec := call(h.HandleAcceptInvite, first); rec.Code != http.StatusSeeOther {
		t.Fatalf("first accept: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	second := postForm("/invites/"+inv.Token, url.Values{})
	second = auth.WithTestUser(second, sessionUserFor(hire))
	second = testutil.WithChiURLParam(second, "token", inv.Token)
	if rec := call(h.HandleAcceptInvite, second); rec.Code == http.StatusSeeOther {
		t.Error("second accept of the same invite should be rejected")
	}
}

func TestHandleAcceptInvite_WrongEmail(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	stranger := fixtures.CreateUser(ctx, "Stranger", "stranger@example.com", models.TierMember)
	inv := fixtures.CreateInvite(ctx, shop.ID, owner.ID, "hire@example.com", models.RoleStaff)

	req := postForm("/invites/"+inv.Token, url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(stranger))
	req = testutil.WithChiURLParam(req, "token", inv.Token)

	rec := call(h.HandleAcceptInvite, req)
	if rec.Code == http.StatusSeeOther {
		t.Error("an invite addressed to another email should not be acceptable")
	}

	exists, err := membershipstore.New(db).Exists(ctx, shop.ID, stranger.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("membership was created for the wrong account")
	}
}

func TestHandleAcceptInvite_Expired(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	hire := fixtures.CreateUser(ctx, "New Hire", "hire@example.com", models.TierMember)
	inv := fixtures.CreateInvite(ctx, shop.ID, owner.ID, hire.Email, models.RoleStaff)

	past := time.Now().UTC().Add(-time.Hour)
	if _, err := db.Collection("invites").UpdateByID(ctx, inv.ID,
		bson.M{"$set": bson.M{"expires_at": past}}); err != nil {
		t.Fatalf("expire invite: %v", err)
	}

	req := postForm("/invites/"+inv.Token, url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(hire))
	req = testutil.WithChiURLParam(req, "token", inv.Token)

	rec := call(h.HandleAcceptInvite, req)
	if rec.Code == http.StatusSeeOther {
		t.Error("an expired invite should not be acceptable")
	}
}

func TestHandleChangeRole(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)
	fixtures.CreateMembership(ctx, shop.ID, staff.ID, shop.Name, models.RoleStaff)

	req := postForm("/shops/"+shop.ID.Hex()+"/team/"+staff.ID.Hex()+"/role",
		url.Values{"role": {"manager"}})
	req = auth.WithTestUser(req, sessionUserFor(owner))
	req = shopctx.WithTestShop(req, shop.ID, shop.Name, models.RoleOwner)
	req = testutil.WithChiURLParam(req, "userID", staff.ID.Hex())

	rec := call(h.HandleChangeRole, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	role, err := membershipstore.New(db).GetRole(ctx, shop.ID, staff.ID)
	if err != nil {
		t.Fatalf("role: %v", err)
	}
	if role != models.RoleManager {
		t.Errorf("role: got %q, want manager", role)
	}
}

func TestHandleRemoveMember(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	staff := fixtures.CreateUser(ctx, "Staff", "staff@example.com", models.TierMember)
	fixtures.CreateMembership(ctx, shop.ID, staff.ID, shop.Name, models.RoleStaff)

	req := postForm("/shops/"+shop.ID.Hex()+"/team/"+staff.ID.Hex()+"/remove", url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(owner))
	req = shopctx.WithTestShop(req, shop.ID, shop.Name, models.RoleOwner)
	req = testutil.WithChiURLParam(req, "userID", staff.ID.Hex())

	rec := call(h.HandleRemoveMember, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	exists, err := membershipstore.New(db).Exists(ctx, shop.ID, staff.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("membership still present after removal")
	}
}

func TestHandleRemoveMember_OwnerRefused(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)

	req := postForm("/shops/"+shop.ID.Hex()+"/team/"+owner.ID.Hex()+"/remove", url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(owner))
	req = shopctx.WithTestShop(req, shop.ID, shop.Name, models.RoleOwner)
	req = testutil.WithChiURLParam(req, "userID", owner.ID.Hex())

	rec := call(h.HandleRemoveMember, req)
	if rec.Code == http.StatusSeeOther {
		t.Error("removing the owner membership should be refused")
	}

	exists, err := membershipstore.New(db).Exists(ctx, shop.ID, owner.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("owner membership was removed")
	}
}

func TestInviteLink_AbsoluteURL(t *testing.T) {
	h := &team.Handler{BaseURL: "https://shophub.test"}
	want := "https://shophub.test/invites/tok-123"
	if got := h.InviteLink("tok-123"); got != want {
		t.Errorf("link: got %q, want %q", got, want)
	}

	h.BaseURL = "https://shophub.test/"
	if got := h.InviteLink("tok-123"); got != want {
		t.Errorf("link with trailing slash: got %q, want %q", got, want)
	}
}

func TestHandleDeclineInvite_RemovesPendingInvite(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	hire := fixtures.CreateUser(ctx, "New Hire", "hire@example.com", models.TierMember)
	inv := fixtures.CreateInvite(ctx, shop.ID, owner.ID, hire.Email, models.RoleStaff)

	req := postForm("/inbox/"+inv.ID.Hex()+"/decline", url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(hire))
	req = testutil.WithChiURLParam(req, "inviteID", inv.ID.Hex())

	rec := call(h.HandleDeclineInvite, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	pending, err := invitestore.New(db).ListPendingByEmail(ctx, hire.Email)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending invites after decline: got %d, want 0", len(pending))
	}
}

func TestHandleDeclineInvite_WrongEmailKeepsInvite(t *testing.T) {
	h, db := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateStarterUser(ctx, "Owner", "owner@example.com")
	shop := fixtures.CreateShop(ctx, "Corner Cuts", owner.ID)
	hire := fixtures.CreateUser(ctx, "New Hire", "hire@example.com", models.TierMember)
	other := fixtures.CreateUser(ctx, "Someone Else", "else@example.com", models.TierMember)
	inv := fixtures.CreateInvite(ctx, shop.ID, owner.ID, hire.Email, models.RoleStaff)

	req := postForm("/inbox/"+inv.ID.Hex()+"/decline", url.Values{})
	req = auth.WithTestUser(req, sessionUserFor(other))
	req = testutil.WithChiURLParam(req, "inviteID", inv.ID.Hex())

	call(h.HandleDeclineInvite, req)

	pending, err := invitestore.New(db).ListPendingByEmail(ctx, hire.Email)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("invite should survive a decline by the wrong account: got %d pending", len(pending))
	}
}
