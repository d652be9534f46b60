package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys. The selection slot keys live in shopctx, which shares
// the same cookie session through the SelectionStore port.
const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// SessionUser is the principal injected into r.Context() for each request.
// Shops is the authoritative membership list, refetched on every request so
// role changes and revocations take effect immediately. ShopsLoaded is false
// when the list could not be fetched; active-shop resolution defers rather
// than asserting a tenant from stale data.
type SessionUser struct {
	ID       string
	Name     string
	Email    string
	Tier     models.Tier
	Active   bool
	Bookable bool

	Shops       []models.Membership
	ShopsLoaded bool
}

// UserFetcher loads a fresh SessionUser (profile plus membership list) for
// the given user ID. Returning (nil, nil) means the user no longer exists or
// is disabled; the request proceeds unauthenticated.
type UserFetcher interface {
	Fetch(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager owns the cookie store and all session lifecycle. It is
// created once in bootstrap and passed to features that need it; there is
// no package-level store.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager initializes a cookie-backed session manager.
//
// In production (secure=true), cookies are Secure + SameSite=None so they
// survive cross-site contexts over HTTPS. In local dev over http://localhost,
// use secure=false so cookies are accepted; SameSite=Lax is fine there.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher wires the per-request user loader. Without a fetcher,
// authenticated cookies yield no principal (useful in some tests).
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// Store exposes the underlying cookie store (logout needs its options to
// build a matching deletion cookie).
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// GetSession returns the request's session, creating a fresh one if no valid
// cookie is present. The error reports cookie decode failures; the returned
// session is usable either way.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Establish marks the session as authenticated for the given user and saves
// the cookie. Any stale values from a previous principal are dropped first,
// including a previously persisted active-shop selection: a new login must
// never inherit another principal's tenant.
func (sm *SessionManager) Establish(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		// Decode failure means a corrupt or foreign cookie; proceed with the
		// fresh session Get returned.
		sm.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// Destroy expires the session cookie, clearing authentication state and the
// persisted shop selection in one stroke.
func (sm *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during logout", zap.Error(err))
	}
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CurrentUser returns the principal from context and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser injects the principal into context if the session cookie
// says the caller is signed in. The fetcher supplies fresh profile and
// membership data; if the fetch fails the principal is injected with
// ShopsLoaded=false so dependent resolution defers instead of guessing.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)

		isAuth, _ := sess.Values[isAuthKey].(bool)
		userID, _ := sess.Values[userIDKey].(string)
		if !isAuth || userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := sm.fetcher.Fetch(r.Context(), userID)
		if err != nil {
			sm.log.Warn("user fetch failed; proceeding with unloaded memberships",
				zap.String("user_id", userID), zap.Error(err))
			// Keep whatever partial principal the fetcher managed to load.
			if u == nil {
				u = &SessionUser{ID: userID}
			}
			u.ShopsLoaded = false
		}
		if u == nil {
			// User deleted or disabled since the cookie was issued.
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireTier ensures the signed-in user's subscription tier is one of the
// allowed tiers. Per-shop role checks belong to shopctx, not here.
func (sm *SessionManager) RequireTier(allowed ...models.Tier) func(http.Handler) http.Handler {
	set := make(map[models.Tier]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}
			if _, has := set[u.Tier]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser returns a request with the given principal in context.
// Exported for handler tests that bypass the session middleware.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap).
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	// Preserve path + query as a return param.
	u := *r.URL
	return u.RequestURI()
}
