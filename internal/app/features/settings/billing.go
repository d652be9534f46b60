// internal/app/features/settings/billing.go
package settings

import (
	"context"
	"net/http"

	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/normalize"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type billingVM struct {
	viewdata.BaseVM
	Error      string
	Current    models.Tier
	Tiers      []models.Tier
	OwnedShops int64
	Saved      bool
}

// ServeBilling handles GET /settings/billing.
func (h *Handler) ServeBilling(w http.ResponseWriter, r *http.Request) {
	tier, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	vm := billingVM{
		BaseVM:  viewdata.NewBaseVM(r, "Billing", "/overview"),
		Current: tier,
		Tiers:   models.AllTiers,
		Saved:   r.URL.Query().Get("saved") == "1",
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if n, err := h.Shops.CountByOwner(ctx, userID); err != nil {
		h.Log.Warn("owned shop count failed", zap.Error(err))
	} else {
		vm.OwnedShops = n
	}

	templates.Render(w, r, "settings/billing", vm)
}

// HandleChangeTier handles POST /settings/billing. Moving to a tier that
// cannot own shops is refused while the user still owns any; the shops
// would otherwise become unreachable but keep their members.
func (h *Handler) HandleChangeTier(w http.ResponseWriter, r *http.Request) {
	tier, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/settings/billing")
		return
	}
	next := normalize.Tier(r.FormValue("tier"))

	renderError := func(msg string, owned int64) {
		templates.Render(w, r, "settings/billing", billingVM{
			BaseVM:     viewdata.NewBaseVM(r, "Billing", "/overview"),
			Error:      msg,
			Current:    tier,
			Tiers:      models.AllTiers,
			OwnedShops: owned,
		})
	}

	if !models.IsValidTier(next) {
		renderError("Choose a valid plan.", 0)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !models.CanOwnShops(next) {
		n, err := h.Shops.CountByOwner(ctx, userID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "DB count shops", err, "A server error occurred.", "/settings/billing")
			return
		}
		if n > 0 {
			renderError("You still own shops. Transfer or delete them before moving to the member plan.", n)
			return
		}
	}
	if next == models.TierStarter {
		n, err := h.Shops.CountByOwner(ctx, userID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "DB count shops", err, "A server error occurred.", "/settings/billing")
			return
		}
		if n > models.StarterShopLimit {
			renderError("The starter plan allows up to 3 shops. Reduce your shops first.", n)
			return
		}
	}

	if err := h.Users.UpdateTier(ctx, userID, next); err != nil {
		h.ErrLog.LogServerError(w, r, "DB update tier", err, "A server error occurred.", "/settings/billing")
		return
	}

	h.Log.Info("subscription tier changed",
		zap.String("user_id", userID.Hex()),
		zap.String("from", string(tier)),
		zap.String("to", string(next)))

	http.Redirect(w, r, "/settings/billing?saved=1", http.StatusSeeOther)
}
