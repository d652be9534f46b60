// internal/app/features/shops/select.go
package shops

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleSelect handles POST /shops/{shopID}/select: the explicit "work in
// this shop" action. The shop must be in the caller's membership list; the
// selection is written to the session slot and the caller lands on the shop
// overview. Fetching richer shop detail is best effort and never blocks the
// switch.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	info := shopctx.FromRequest(r)
	if info == nil {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	shopID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "shopID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad shop id", err, "That shop link is not valid.", "/shops")
		return
	}

	if !info.Session.Loaded() {
		// Membership list unavailable; don't guess. The next request retries.
		h.Log.Warn("select with unloaded memberships", zap.String("shop_id", shopID.Hex()))
		http.Redirect(w, r, "/shops", http.StatusSeeOther)
		return
	}

	sel, err := info.Session.Select(shopID)
	if err != nil {
		uierrors.RenderForbidden(w, r, "You are not a member of this shop.", "/shops")
		return
	}

	// Best-effort detail fetch. A failure here degrades the overview page,
	// not the selection: role gating works from membership data alone.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if shop, err := h.Shops.GetByID(ctx, shopID); err != nil {
		h.Log.Warn("shop detail fetch failed on select",
			zap.Error(err), zap.String("shop_id", shopID.Hex()))
	} else {
		info.Session.ApplyDetail(shopID, shop)
	}

	store := shopctx.NewCookieSelectionStore(h.SessionMgr)
	if err := store.Set(w, r, sel); err != nil {
		// The URL still resolves the shop on the next request; only the
		// sticky selection is lost.
		h.Log.Error("persist shop selection failed", zap.Error(err))
	}

	http.Redirect(w, r, "/shops/"+shopID.Hex()+"/overview", http.StatusSeeOther)
}

// HandleLeave handles POST /shops/leave: drop the active shop and go back to
// the global view. Leaving when no shop is active is a no-op, not an error.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	if info := shopctx.FromRequest(r); info != nil {
		info.Session.Clear()
	}

	store := shopctx.NewCookieSelectionStore(h.SessionMgr)
	if err := store.Clear(w, r); err != nil {
		h.Log.Error("clear shop selection failed", zap.Error(err))
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/shops?notice=left")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/shops?notice=left", http.StatusSeeOther)
}
