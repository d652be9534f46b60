package shopctx

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey string

const infoKey ctxKey = "shopctx"

// Info carries the per-request resolution and its session for handlers.
type Info struct {
	Resolution Resolution
	Session    *Session
}

// Middleware resolves the active shop for every request of a signed-in user
// and injects the result into the request context. The URL path is read for
// a /shops/{id} segment; the session cookie supplies the persisted
// selection; the membership list comes from the principal loaded by
// auth.LoadSessionUser. The persistence side effect declared by the
// resolution is applied to the cookie slot here.
//
// Requests without a principal pass through untouched: public pages have no
// shop context.
func Middleware(sm *auth.SessionManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			store := NewCookieSelectionStore(sm)
			persistedID := ""
			if sel, ok := store.Get(r); ok {
				persistedID = sel.ShopID.Hex()
			}

			sess := NewSession(u.Shops, u.ShopsLoaded)
			res := sess.Resolve(shopIDFromPath(r.URL.Path), persistedID)

			switch res.Persist {
			case PersistWrite:
				if err := store.Set(w, r, *res.Shop); err != nil {
					logger.Warn("persist shop selection failed", zap.Error(err))
				}
			case PersistClear:
				if err := store.Clear(w, r); err != nil {
					logger.Warn("clear shop selection failed", zap.Error(err))
				}
			}

			if res.Code == StateNone && persistedID != "" && res.Persist == PersistClear {
				logger.Debug("stale shop selection cleared",
					zap.String("user_id", u.ID),
					zap.String("shop_id", persistedID))
			}

			next.ServeHTTP(w, withInfo(r, &Info{Resolution: res, Session: sess}))
		})
	}
}

// shopIDFromPath extracts the shop identifier from a /shops/{id}/... path.
// Segments that are not object IDs (new, all, leave, select) are route
// keywords, not tenant references, and read as absent.
func shopIDFromPath(path string) string {
	const prefix = "/shops/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	seg := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(seg, "/"); idx != -1 {
		seg = seg[:idx]
	}
	if _, err := primitive.ObjectIDFromHex(seg); err != nil {
		return ""
	}
	return seg
}

// FromRequest returns the shop context, or nil when no principal was
// present.
func FromRequest(r *http.Request) *Info {
	if info, ok := r.Context().Value(infoKey).(*Info); ok {
		return info
	}
	return nil
}

// RoleFromRequest returns the resolved role, RoleNone when there is no shop
// context or no active shop.
func RoleFromRequest(r *http.Request) models.Role {
	info := FromRequest(r)
	if info == nil {
		return models.RoleNone
	}
	return info.Resolution.Role
}

// ActiveFromRequest returns the active selection, or nil.
func ActiveFromRequest(r *http.Request) *Selection {
	info := FromRequest(r)
	if info == nil || info.Resolution.Code != StateActive {
		return nil
	}
	return info.Resolution.Shop
}

// RequireShop ensures a shop is active. Requests without one are sent back
// to the shop list; HTMX requests get an HX-Redirect so the full page swaps.
func RequireShop(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActiveFromRequest(r) != nil {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/shops")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.Redirect(w, r, "/shops", http.StatusSeeOther)
	})
}

// RequireShopRole ensures the resolved role is one of the allowed roles.
// Role-restricted routes are never reachable while no shop is active, since
// the resolved role is then RoleNone.
func RequireShopRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, has := set[RoleFromRequest(r)]; has {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/forbidden")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		})
	}
}

func withInfo(r *http.Request, info *Info) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), infoKey, info))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Test Helpers                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// WithTestShop returns a request with an active shop context for testing.
func WithTestShop(r *http.Request, id primitive.ObjectID, name string, role models.Role) *http.Request {
	sel := Selection{ShopID: id, ShopName: name, Role: role}
	sess := NewSession([]models.Membership{{ShopID: id, ShopName: name, Role: role}}, true)
	sess.setActive(sel)
	return withInfo(r, &Info{
		Resolution: Resolution{Code: StateActive, Shop: &sel, Role: role},
		Session:    sess,
	})
}

// WithTestNoShop returns a request with a resolved-but-empty shop context.
func WithTestNoShop(r *http.Request) *http.Request {
	return withInfo(r, &Info{
		Resolution: Resolution{Code: StateNone, Role: models.RoleNone},
		Session:    NewSession(nil, true),
	})
}
