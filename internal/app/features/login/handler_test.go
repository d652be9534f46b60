package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	"github.com/dalemusser/shophub/internal/app/features/login"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T) (*login.Handler, *userstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(testSessionKey, "shophub-test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := login.NewHandler(db, sm, uierrors.NewErrorLogger(logger), logger)
	return h, userstore.New(db)
}

func createUserWithPassword(t *testing.T, users *userstore.Store, email, password string) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u, err := users.Create(ctx, models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Tier:         models.TierStarter,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	// Failure paths render a template, which panics without the template
	// engine booted; the assertions below only depend on what happened
	// before the render.
	func() {
		defer func() { _ = recover() }()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, users := newTestHandler(t)
	createUserWithPassword(t, users, "owner@example.com", "correct horse")

	rec := postLogin(h, url.Values{
		"email":    {"owner@example.com"},
		"password": {"correct horse"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/overview" {
		t.Errorf("redirect: got %q, want /overview", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}
}

func TestHandleLoginPost_SuccessWithReturnURL(t *testing.T) {
	h, users := newTestHandler(t)
	createUserWithPassword(t, users, "owner@example.com", "correct horse")

	rec := postLogin(h, url.Values{
		"email":    {"owner@example.com"},
		"password": {"correct horse"},
		"return":   {"/shops"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/shops" {
		t.Errorf("redirect: got %q, want /shops", loc)
	}
}

func TestHandleLoginPost_OffsiteReturnURLIgnored(t *testing.T) {
	h, users := newTestHandler(t)
	createUserWithPassword(t, users, "owner@example.com", "correct horse")

	rec := postLogin(h, url.Values{
		"email":    {"owner@example.com"},
		"password": {"correct horse"},
		"return":   {"https://evil.example.com/"},
	})

	if loc := rec.Header().Get("Location"); loc != "/overview" {
		t.Errorf("redirect: got %q, want /overview", loc)
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h, users := newTestHandler(t)
	createUserWithPassword(t, users, "owner@example.com", "correct horse")

	rec := postLogin(h, url.Values{
		"email":    {"owner@example.com"},
		"password": {"wrong"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("wrong password should not redirect")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("wrong password should not set a session cookie")
	}
}

func TestHandleLoginPost_UnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postLogin(h, url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("unknown email should not redirect")
	}
}

func TestHandleLoginPost_DisabledAccount(t *testing.T) {
	h, users := newTestHandler(t)
	u := createUserWithPassword(t, users, "owner@example.com", "correct horse")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := users.SetActive(ctx, u.ID, false); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	rec := postLogin(h, url.Values{
		"email":    {"owner@example.com"},
		"password": {"correct horse"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("disabled account should not redirect")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("disabled account should not set a session cookie")
	}
}
