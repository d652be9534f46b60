// internal/app/features/inventory/central.go
package inventory

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	inventorystore "github.com/dalemusser/shophub/internal/app/store/inventory"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type centralRow struct {
	ShopID   string
	ShopName string
	itemRow
}

type shopChoice struct {
	ID   string
	Name string
}

type centralVM struct {
	viewdata.BaseVM
	Items   []centralRow
	Loading bool
	Notice  string
}

type centralFormVM struct {
	viewdata.BaseVM
	Error    string
	Shops    []shopChoice
	ShopID   string
	Name     string
	Category string
	Quantity string
	Unit     string
	LowStock bool
}

// ownedShops returns the shops the principal owns, in membership order.
// Central inventory spans ownership, not staff memberships: a manager at
// someone else's shop manages that stock from the shop panel instead.
func ownedShops(u *auth.SessionUser) []models.Membership {
	owned := make([]models.Membership, 0, len(u.Shops))
	for _, m := range u.Shops {
		if m.Role == models.RoleOwner {
			owned = append(owned, m)
		}
	}
	return owned
}

// ServeCentralInventory handles GET /central-inventory. Routing gates the
// page to shop-owning tiers.
func (h *Handler) ServeCentralInventory(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	vm := centralVM{
		BaseVM:  viewdata.NewBaseVM(r, "Central Inventory", "/overview"),
		Loading: !u.ShopsLoaded,
	}
	if r.URL.Query().Get("notice") == "created" {
		vm.Notice = "Item added."
	}

	if vm.Loading {
		templates.Render(w, r, "inventory/central", vm)
		return
	}

	owned := ownedShops(u)
	ids := make([]primitive.ObjectID, 0, len(owned))
	names := make(map[primitive.ObjectID]string, len(owned))
	for _, m := range owned {
		ids = append(ids, m.ShopID)
		names[m.ShopID] = m.ShopName
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Inventory.ListByShops(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list central inventory", err, "A server error occurred.", "/overview")
		return
	}
	for _, it := range items {
		vm.Items = append(vm.Items, centralRow{
			ShopID:   it.ShopID.Hex(),
			ShopName: names[it.ShopID],
			itemRow: itemRow{
				ID:       it.ID.Hex(),
				Name:     it.Name,
				Category: it.Category,
				Quantity: it.Quantity,
				Unit:     it.Unit,
				LowStock: it.LowStock,
			},
		})
	}

	templates.Render(w, r, "inventory/central", vm)
}

// ServeCentralNewItem handles GET /central-inventory/new: the add-item form
// with a picker over the user's owned shops.
func (h *Handler) ServeCentralNewItem(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if !u.ShopsLoaded {
		http.Redirect(w, r, "/central-inventory", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "inventory/central_new", centralFormVM{
		BaseVM:   viewdata.NewBaseVM(r, "Add Item", "/central-inventory"),
		Shops:    shopChoices(ownedShops(u)),
		Quantity: "0",
	})
}

// HandleCentralCreateItem handles POST /central-inventory. The chosen shop
// must be one the user owns; anything else is rejected regardless of what
// the form claims.
func (h *Handler) HandleCentralCreateItem(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if !u.ShopsLoaded {
		http.Redirect(w, r, "/central-inventory", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/central-inventory")
		return
	}

	owned := ownedShops(u)
	shopIDRaw := strings.TrimSpace(r.FormValue("shop_id"))

	in, qty, formErr := parseItemForm(r)
	renderError := func(msg string) {
		templates.Render(w, r, "inventory/central_new", centralFormVM{
			BaseVM:   viewdata.NewBaseVM(r, "Add Item", "/central-inventory"),
			Error:    msg,
			Shops:    shopChoices(owned),
			ShopID:   shopIDRaw,
			Name:     in.Name,
			Category: in.Category,
			Quantity: r.FormValue("quantity"),
			Unit:     in.Unit,
			LowStock: r.FormValue("low_stock") == "on",
		})
	}
	if formErr != "" {
		renderError(formErr)
		return
	}

	shopID, err := primitive.ObjectIDFromHex(shopIDRaw)
	if err != nil {
		renderError("Choose one of your shops.")
		return
	}
	isOwned := false
	for _, m := range owned {
		if m.ShopID == shopID {
			isOwned = true
			break
		}
	}
	if !isOwned {
		uierrors.RenderForbidden(w, r, "You can only add items to shops you own.", "/central-inventory")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err = h.Inventory.Create(ctx, models.InventoryItem{
		ShopID:   shopID,
		Name:     in.Name,
		Category: in.Category,
		Quantity: qty,
		Unit:     in.Unit,
		LowStock: r.FormValue("low_stock") == "on",
	})
	switch err {
	case nil:
		http.Redirect(w, r, "/central-inventory?notice=created", http.StatusSeeOther)
	case inventorystore.ErrDuplicateItem:
		renderError("That shop already has an item with this name.")
	default:
		h.ErrLog.LogServerError(w, r, "DB create item", err, "A server error occurred.", "/central-inventory")
	}
}

func shopChoices(memberships []models.Membership) []shopChoice {
	out := make([]shopChoice, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, shopChoice{ID: m.ShopID.Hex(), Name: m.ShopName})
	}
	return out
}
