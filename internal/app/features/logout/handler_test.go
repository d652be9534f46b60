package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/shophub/internal/app/features/logout"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "shophub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return logout.NewHandler(sm, zap.NewNop())
}

func TestServeLogout_RedirectsHome(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect: got %q, want /", loc)
	}

	// The deletion cookie must be expired so the browser drops the session,
	// including the active-shop selection stored in it.
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "shophub-test" {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("session cookie MaxAge: got %d, want negative", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected a deletion cookie for the session")
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	h.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("HX-Redirect") != "/" {
		t.Errorf("HX-Redirect: got %q, want /", rec.Header().Get("HX-Redirect"))
	}
}
