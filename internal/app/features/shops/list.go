// internal/app/features/shops/list.go
package shops

import (
	"net/http"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// shopRow is one membership in the shop list.
type shopRow struct {
	ID       string
	Name     string
	Role     models.Role
	IsActive bool
}

type listVM struct {
	viewdata.BaseVM
	Shops     []shopRow
	CanCreate bool
	Loading   bool
	Notice    string
}

// ServeShopsList handles GET /shops: every shop the user belongs to, with
// the currently active one marked. While the membership list could not be
// loaded the page says so instead of pretending the user has no shops.
func (h *Handler) ServeShopsList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	vm := listVM{
		BaseVM:    viewdata.NewBaseVM(r, "My Shops", "/overview"),
		CanCreate: authz.CanCreateShops(r),
		Loading:   u != nil && !u.ShopsLoaded,
	}

	activeID := ""
	if vm.ShopActive {
		activeID = vm.ShopID
	}
	if u != nil {
		for _, m := range u.Shops {
			vm.Shops = append(vm.Shops, shopRow{
				ID:       m.ShopID.Hex(),
				Name:     m.ShopName,
				Role:     m.Role,
				IsActive: m.ShopID.Hex() == activeID,
			})
		}
	}

	switch r.URL.Query().Get("notice") {
	case "left":
		vm.Notice = "You are no longer working in a shop."
	case "created":
		vm.Notice = "Shop created."
	}

	templates.Render(w, r, "shops/list", vm)
}
