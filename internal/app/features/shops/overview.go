// internal/app/features/shops/overview.go
package shops

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type overviewVM struct {
	viewdata.BaseVM

	// Detail fields; zero values when Degraded. Description is sanitized
	// HTML from shop creation and renders unescaped.
	Description  template.HTML
	Address      string
	OpeningHours []models.HourRange

	// Degraded means the shop document could not be fetched. The page still
	// renders from membership data (name, role) with the detail blanked.
	Degraded bool

	TeamCount        int
	InventoryCount   int
	UpcomingBookings int64
}

// ServeShopOverview handles GET /shops/{shopID}/overview. The middleware has
// already resolved the URL shop against the membership list; a shop that is
// not the caller's never reaches this handler. Detail and stats are fetched
// here, and every fetch failure degrades the page instead of erroring it.
func (h *Handler) ServeShopOverview(w http.ResponseWriter, r *http.Request) {
	info := shopctx.FromRequest(r)
	active := shopctx.ActiveFromRequest(r)

	vm := overviewVM{
		BaseVM: viewdata.NewBaseVM(r, active.ShopName, "/shops"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	shop, err := h.Shops.GetByID(ctx, active.ShopID)
	if err != nil {
		h.Log.Warn("shop detail fetch failed",
			zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
		vm.Degraded = true
	} else {
		info.Session.ApplyDetail(active.ShopID, shop)
		vm.Description = template.HTML(shop.Description)
		vm.Address = shop.Address
		vm.OpeningHours = shop.OpeningHours
	}

	// Stats are decoration; log and show zeros on failure.
	if members, err := h.Memberships.ListByShop(ctx, active.ShopID); err != nil {
		h.Log.Warn("team count failed", zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
	} else {
		vm.TeamCount = len(members)
	}
	if items, err := h.Inventory.ListByShop(ctx, active.ShopID); err != nil {
		h.Log.Warn("inventory count failed", zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
	} else {
		vm.InventoryCount = len(items)
	}
	if n, err := h.Bookings.CountUpcoming(ctx, active.ShopID, time.Now().UTC()); err != nil {
		h.Log.Warn("booking count failed", zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
	} else {
		vm.UpcomingBookings = n
	}

	templates.Render(w, r, "shops/overview", vm)
}
