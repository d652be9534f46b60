package register_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	"github.com/dalemusser/shophub/internal/app/features/register"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/shophub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*register.Handler, *userstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "shophub-test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return register.NewHandler(db, sm, uierrors.NewErrorLogger(logger), logger), userstore.New(db)
}

func postRegister(h *register.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	// Validation failures re-render the form, which panics without the
	// template engine booted.
	func() {
		defer func() { _ = recover() }()
		h.HandleRegisterPost(rec, req)
	}()
	return rec
}

func TestHandleRegisterPost_Success(t *testing.T) {
	h, users := newTestHandler(t)

	rec := postRegister(h, url.Values{
		"name":             {"Riley Ortiz"},
		"email":            {"Riley@Example.com"},
		"password":         {"long enough secret"},
		"password_confirm": {"long enough secret"},
		"tier":             {"starter"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/overview" {
		t.Errorf("redirect: got %q, want /overview", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected the new account to be signed in")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := users.GetByEmail(ctx, "riley@example.com")
	if err != nil {
		t.Fatalf("created user not found: %v", err)
	}
	if u.Tier != models.TierStarter {
		t.Errorf("tier: got %q, want starter", u.Tier)
	}
}

func TestHandleRegisterPost_ValidationFailures(t *testing.T) {
	h, _ := newTestHandler(t)

	base := url.Values{
		"name":             {"Riley Ortiz"},
		"email":            {"riley@example.com"},
		"password":         {"long enough secret"},
		"password_confirm": {"long enough secret"},
		"tier":             {"member"},
	}

	cases := []struct {
		name     string
		mutate   func(url.Values)
	}{
		{"missing name", func(f url.Values) { f.Set("name", "") }},
		{"bad email", func(f url.Values) { f.Set("email", "not-an-email") }},
		{"short password", func(f url.Values) {
			f.Set("password", "short")
			f.Set("password_confirm", "short")
		}},
		{"mismatched confirmation", func(f url.Values) { f.Set("password_confirm", "different secret") }},
		{"unknown tier", func(f url.Values) { f.Set("tier", "platinum") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			for k, v := range base {
				form[k] = append([]string(nil), v...)
			}
			tc.mutate(form)

			rec := postRegister(h, form)
			if rec.Code == http.StatusSeeOther {
				t.Error("invalid input should not redirect")
			}
		})
	}
}

func TestHandleRegisterPost_DuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	form := url.Values{
		"name":             {"Riley Ortiz"},
		"email":            {"riley@example.com"},
		"password":         {"long enough secret"},
		"password_confirm": {"long enough secret"},
		"tier":             {"member"},
	}

	if rec := postRegister(h, form); rec.Code != http.StatusSeeOther {
		t.Fatalf("first registration failed: status %d", rec.Code)
	}
	if rec := postRegister(h, form); rec.Code == http.StatusSeeOther {
		t.Error("duplicate email should not redirect")
	}
}
