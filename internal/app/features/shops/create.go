// internal/app/features/shops/create.go
package shops

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// weekdays in display order for the opening-hours form.
var weekdays = []string{
	models.Monday, models.Tuesday, models.Wednesday, models.Thursday,
	models.Friday, models.Saturday, models.Sunday,
}

type createShopInput struct {
	Name    string `validate:"required,max=80" label:"Shop name"`
	Address string `validate:"max=200" label:"Address"`
}

type hourRow struct {
	Day    string
	Open   string
	Close  string
	Closed bool
}

type createFormVM struct {
	viewdata.BaseVM
	Error       string
	Name        string
	Address     string
	Description string
	Hours       []hourRow
}

func defaultHours() []hourRow {
	rows := make([]hourRow, 0, len(weekdays))
	for _, day := range weekdays {
		rows = append(rows, hourRow{Day: day, Open: "09:00", Close: "17:00", Closed: day == models.Sunday})
	}
	return rows
}

// ServeNewShop handles GET /shops/new.
func (h *Handler) ServeNewShop(w http.ResponseWriter, r *http.Request) {
	if !authz.CanCreateShops(r) {
		uierrors.RenderForbidden(w, r, "Your plan does not include running shops. Upgrade to Starter or Pro.", "/shops")
		return
	}

	templates.Render(w, r, "shops/new", createFormVM{
		BaseVM: viewdata.NewBaseVM(r, "Create Shop", "/shops"),
		Hours:  defaultHours(),
	})
}

// HandleCreateShop handles POST /shops. The creator becomes the shop's
// owner; starter accounts are capped at a fixed number of shops.
func (h *Handler) HandleCreateShop(w http.ResponseWriter, r *http.Request) {
	if !authz.CanCreateShops(r) {
		uierrors.RenderForbidden(w, r, "Your plan does not include running shops. Upgrade to Starter or Pro.", "/shops")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/shops/new")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	address := strings.TrimSpace(r.FormValue("address"))
	description := htmlsanitize.Sanitize(r.FormValue("description"))
	hours := parseHoursForm(r)

	renderError := func(msg string) {
		vm := createFormVM{
			BaseVM:      viewdata.NewBaseVM(r, "Create Shop", "/shops"),
			Error:       msg,
			Name:        name,
			Address:     address,
			Description: description,
			Hours:       hours,
		}
		templates.Render(w, r, "shops/new", vm)
	}

	if result := inputval.Validate(createShopInput{Name: name, Address: address}); result.HasErrors() {
		renderError(result.First())
		return
	}

	tier, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if tier == models.TierStarter {
		n, err := h.Shops.CountByOwner(ctx, userID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "DB count shops", err, "A server error occurred.", "/shops")
			return
		}
		if n >= models.StarterShopLimit {
			renderError("Starter plans are limited to 3 shops. Upgrade to Pro for unlimited shops.")
			return
		}
	}

	shop, err := h.Shops.Create(ctx, models.Shop{
		Name:         name,
		Description:  description,
		Address:      address,
		OwnerID:      userID,
		OpeningHours: hoursToModel(hours),
	})
	switch err {
	case nil:
		// created, continue
	case shopstore.ErrDuplicateShop:
		renderError("You already have a shop with this name.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB create shop", err, "A server error occurred.", "/shops")
		return
	}

	if err := h.Memberships.Add(ctx, shop.ID, userID, models.RoleOwner); err != nil {
		// Without the owner membership the shop is unreachable; remove it so
		// the user can retry rather than hitting the duplicate-name error.
		h.Log.Error("create owner membership failed",
			zap.Error(err), zap.String("shop_id", shop.ID.Hex()))
		if _, delErr := h.Shops.Delete(ctx, shop.ID); delErr != nil {
			h.Log.Error("rollback shop create failed",
				zap.Error(delErr), zap.String("shop_id", shop.ID.Hex()))
		}
		h.ErrLog.LogServerError(w, r, "DB create membership", err, "A server error occurred.", "/shops")
		return
	}

	// Make the new shop the active one right away: write the selection slot
	// and land on its overview.
	store := shopctx.NewCookieSelectionStore(h.SessionMgr)
	sel := shopctx.Selection{ShopID: shop.ID, ShopName: shop.Name, Role: models.RoleOwner}
	if err := store.Set(w, r, sel); err != nil {
		h.Log.Warn("persist new shop selection failed", zap.Error(err))
	}

	http.Redirect(w, r, "/shops/"+shop.ID.Hex()+"/overview", http.StatusSeeOther)
}

func parseHoursForm(r *http.Request) []hourRow {
	rows := make([]hourRow, 0, len(weekdays))
	for _, day := range weekdays {
		rows = append(rows, hourRow{
			Day:    day,
			Open:   strings.TrimSpace(r.FormValue("open_" + day)),
			Close:  strings.TrimSpace(r.FormValue("close_" + day)),
			Closed: r.FormValue("closed_"+day) == "on",
		})
	}
	return rows
}

func hoursToModel(rows []hourRow) []models.HourRange {
	out := make([]models.HourRange, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.HourRange{
			Day:    row.Day,
			Open:   row.Open,
			Close:  row.Close,
			Closed: row.Closed,
		})
	}
	return out
}
