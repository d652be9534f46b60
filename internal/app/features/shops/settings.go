// internal/app/features/shops/settings.go
package shops

import (
	"context"
	"net/http"
	"strings"

	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	"github.com/dalemusser/shophub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type settingsVM struct {
	viewdata.BaseVM
	Error       string
	Saved       bool
	Name        string
	Address     string
	Description string
	Hours       []hourRow
}

// ServeShopSettings handles GET /shops/{shopID}/settings (owner and manager
// only, enforced by the route middleware).
func (h *Handler) ServeShopSettings(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	shop, err := h.Shops.GetByID(ctx, active.ShopID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB load shop", err, "A server error occurred.", base+"/overview")
		return
	}

	hours := make([]hourRow, 0, len(shop.OpeningHours))
	for _, hr := range shop.OpeningHours {
		hours = append(hours, hourRow{Day: hr.Day, Open: hr.Open, Close: hr.Close, Closed: hr.Closed})
	}
	if len(hours) == 0 {
		hours = defaultHours()
	}

	templates.Render(w, r, "shops/settings", settingsVM{
		BaseVM:      viewdata.NewBaseVM(r, "Shop Settings", base+"/overview"),
		Saved:       r.URL.Query().Get("saved") == "1",
		Name:        shop.Name,
		Address:     shop.Address,
		Description: shop.Description,
		Hours:       hours,
	})
}

// HandleUpdateShopSettings handles POST /shops/{shopID}/settings. A rename
// also refreshes the name denormalized onto every membership, so sidebars
// and shop lists stay consistent.
func (h *Handler) HandleUpdateShopSettings(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base+"/settings")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	address := strings.TrimSpace(r.FormValue("address"))
	description := htmlsanitize.Sanitize(r.FormValue("description"))
	hours := parseHoursForm(r)

	renderError := func(msg string) {
		templates.Render(w, r, "shops/settings", settingsVM{
			BaseVM:      viewdata.NewBaseVM(r, "Shop Settings", base+"/overview"),
			Error:       msg,
			Name:        name,
			Address:     address,
			Description: description,
			Hours:       hours,
		})
	}

	if result := inputval.Validate(createShopInput{Name: name, Address: address}); result.HasErrors() {
		renderError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Shops.Update(ctx, active.ShopID, models.Shop{
		Name:         name,
		Description:  description,
		Address:      address,
		OpeningHours: hoursToModel(hours),
	})
	switch err {
	case nil:
		// updated, continue
	case shopstore.ErrDuplicateShop:
		renderError("You already have a shop with this name.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB update shop", err, "A server error occurred.", base+"/settings")
		return
	}

	if name != active.ShopName {
		if err := h.Memberships.RefreshShopName(ctx, active.ShopID, name); err != nil {
			// Memberships now carry the old name until the next rename; the
			// shop document itself is already correct.
			h.Log.Error("refresh membership shop name failed",
				zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
		}
	}

	http.Redirect(w, r, base+"/settings?saved=1", http.StatusSeeOther)
}
