// internal/app/features/inventory/routes.go
package inventory

import (
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ShopRoutes builds the per-shop inventory router, mounted under
// /shops/{shopID}/inventory. Stock management is managerial.
func ShopRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(shopctx.RequireShopRole(models.RoleOwner, models.RoleManager))

		pr.Get("/", h.ServeShopItems)
		pr.Get("/new", h.ServeNewItem)
		pr.Post("/", h.HandleCreateItem)
		pr.Get("/{itemID}/edit", h.ServeEditItem)
		pr.Post("/{itemID}/edit", h.HandleUpdateItem)
		pr.Post("/{itemID}/adjust", h.HandleAdjustItem)
		pr.Post("/{itemID}/deactivate", h.HandleDeactivateItem)
	})

	return r
}

// CentralRoutes builds the cross-shop inventory router, mounted at
// /central-inventory. Only shop-owning tiers have a central view.
func CentralRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireTier(models.TierStarter, models.TierPro))

		pr.Get("/", h.ServeCentralInventory)
		pr.Get("/new", h.ServeCentralNewItem)
		pr.Post("/", h.HandleCentralCreateItem)
	})

	return r
}
