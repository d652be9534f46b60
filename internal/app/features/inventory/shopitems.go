// internal/app/features/inventory/shopitems.go
package inventory

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	inventorystore "github.com/dalemusser/shophub/internal/app/store/inventory"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type itemInput struct {
	Name     string `validate:"required,max=120" label:"Item name"`
	Category string `validate:"max=60" label:"Category"`
	Unit     string `validate:"max=20" label:"Unit"`
}

type itemRow struct {
	ID       string
	Name     string
	Category string
	Quantity int
	Unit     string
	LowStock bool
}

type listVM struct {
	viewdata.BaseVM
	Items  []itemRow
	Notice string
}

type itemFormVM struct {
	viewdata.BaseVM
	Error    string
	ItemID   string
	Name     string
	Category string
	Quantity string
	Unit     string
	LowStock bool
	Action   string
}

// ServeShopItems handles GET /shops/{shopID}/inventory. Routing guarantees
// an active shop with a managerial role.
func (h *Handler) ServeShopItems(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)

	vm := listVM{
		BaseVM: viewdata.NewBaseVM(r, "Shop Inventory", "/shops/"+active.ShopID.Hex()+"/overview"),
	}
	switch r.URL.Query().Get("notice") {
	case "created":
		vm.Notice = "Item added."
	case "updated":
		vm.Notice = "Item updated."
	case "removed":
		vm.Notice = "Item removed."
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Inventory.ListByShop(ctx, active.ShopID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list inventory", err, "A server error occurred.", vm.BackURL)
		return
	}
	vm.Items = itemRows(items)

	templates.Render(w, r, "inventory/list", vm)
}

// ServeNewItem handles GET /shops/{shopID}/inventory/new.
func (h *Handler) ServeNewItem(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/inventory"

	templates.Render(w, r, "inventory/form", itemFormVM{
		BaseVM:   viewdata.NewBaseVM(r, "Add Item", base),
		Quantity: "0",
		Action:   base,
	})
}

// HandleCreateItem handles POST /shops/{shopID}/inventory.
func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/inventory"

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}

	in, qty, formErr := parseItemForm(r)
	renderError := func(msg string) {
		templates.Render(w, r, "inventory/form", itemFormVM{
			BaseVM:   viewdata.NewBaseVM(r, "Add Item", base),
			Error:    msg,
			Name:     in.Name,
			Category: in.Category,
			Quantity: r.FormValue("quantity"),
			Unit:     in.Unit,
			LowStock: r.FormValue("low_stock") == "on",
			Action:   base,
		})
	}
	if formErr != "" {
		renderError(formErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.Inventory.Create(ctx, models.InventoryItem{
		ShopID:   active.ShopID,
		Name:     in.Name,
		Category: in.Category,
		Quantity: qty,
		Unit:     in.Unit,
		LowStock: r.FormValue("low_stock") == "on",
	})
	switch err {
	case nil:
		http.Redirect(w, r, base+"?notice=created", http.StatusSeeOther)
	case inventorystore.ErrDuplicateItem:
		renderError("This shop already has an item with this name.")
	default:
		h.ErrLog.LogServerError(w, r, "DB create item", err, "A server error occurred.", base)
	}
}

// ServeEditItem handles GET /shops/{shopID}/inventory/{itemID}/edit.
func (h *Handler) ServeEditItem(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/inventory"

	itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad item id", err, "Invalid item.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	item, err := h.Inventory.GetByID(ctx, active.ShopID, itemID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "item not found", err, "This item no longer exists.", base)
		return
	}

	templates.Render(w, r, "inventory/form", itemFormVM{
		BaseVM:   viewdata.NewBaseVM(r, "Edit Item", base),
		ItemID:   item.ID.Hex(),
		Name:     item.Name,
		Category: item.Category,
		Quantity: strconv.Itoa(item.Quantity),
		Unit:     item.Unit,
		LowStock: item.LowStock,
		Action:   base + "/" + item.ID.Hex() + "/edit",
	})
}

// HandleUpdateItem handles POST /shops/{shopID}/inventory/{itemID}/edit.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/inventory"

	itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad item id", err, "Invalid item.", base)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}

	in, qty, formErr := parseItemForm(r)
	renderError := func(msg string) {
		templates.Render(w, r, "inventory/form", itemFormVM{
			BaseVM:   viewdata.NewBaseVM(r, "Edit Item", base),
			Error:    msg,
			ItemID:   itemID.Hex(),
			Name:     in.Name,
			Category: in.Category,
			Quantity: r.FormValue("quantity"),
			Unit:     in.Unit,
			LowStock: r.FormValue("low_stock") == "on",
			Action:   base + "/" + itemID.Hex() + "/edit",
		})
	}
	if formErr != "" {
		renderError(formErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Inventory.Update(ctx, active.ShopID, itemID, models.InventoryItem{
		Name:     in.Name,
		Category: in.Category,
		Quantity: qty,
		Unit:     in.Unit,
		LowStock: r.FormValue("low_stock") == "on",
	})
	switch err {
	case nil:
		http.Redirect(w, r, base+"?notice=updated", http.StatusSeeOther)
	case inventorystore.ErrDuplicateItem:
		renderError("This shop already has an item with this name.")
	default:
		h.ErrLog.LogServerError(w, r, "DB update item", err, "A server error occurred.", base)
	}
}

// HandleAdjustItem handles POST /shops/{shopID}/inventory/{itemID}/adjust,
// applying a signed delta from the quick +/- controls on the list page.
func (h *Handler) HandleAdjustItem(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/inventory"

	itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad item id", err, "Invalid item.", base)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	delta, err := strconv.Atoi(strings.TrimSpace(r.FormValue("delta")))
	if err != nil || delta == 0 {
		h.ErrLog.LogBadRequest(w, r, "bad delta", err, "Invalid quantity adjustment.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Inventory.AdjustQuantity(ctx, active.ShopID, itemID, delta); err != nil {
		h.ErrLog.LogServerError(w, r, "DB adjust quantity", err, "A server error occurred.", base)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", base)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, base, http.StatusSeeOther)
}

// HandleDeactivateItem handles POST /shops/{shopID}/inventory/{itemID}/deactivate.
// Items are soft-deleted so past bookings keep their references.
func (h *Handler) HandleDeactivateItem(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/inventory"

	itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad item id", err, "Invalid item.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Inventory.Deactivate(ctx, active.ShopID, itemID); err != nil {
		h.ErrLog.LogServerError(w, r, "DB deactivate item", err, "A server error occurred.", base)
		return
	}

	h.Log.Info("inventory item deactivated",
		zap.String("shop_id", active.ShopID.Hex()),
		zap.String("item_id", itemID.Hex()))

	http.Redirect(w, r, base+"?notice=removed", http.StatusSeeOther)
}

// parseItemForm validates the shared item form fields. The returned string
// is empty when the input is valid.
func parseItemForm(r *http.Request) (itemInput, int, string) {
	in := itemInput{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Category: strings.TrimSpace(r.FormValue("category")),
		Unit:     strings.TrimSpace(r.FormValue("unit")),
	}
	if result := inputval.Validate(in); result.HasErrors() {
		return in, 0, result.First()
	}
	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || qty < 0 {
		return in, 0, "Quantity must be a whole number of zero or more."
	}
	return in, qty, ""
}

func itemRows(items []models.InventoryItem) []itemRow {
	rows := make([]itemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemRow{
			ID:       it.ID.Hex(),
			Name:     it.Name,
			Category: it.Category,
			Quantity: it.Quantity,
			Unit:     it.Unit,
			LowStock: it.LowStock,
		})
	}
	return rows
}
