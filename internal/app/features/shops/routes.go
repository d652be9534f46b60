// internal/app/features/shops/routes.go
package shops

import (
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /shops requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + CREATE
		pr.Get("/", h.ServeShopsList)
		pr.Get("/new", h.ServeNewShop)
		pr.Post("/", h.HandleCreateShop)

		// EXPLICIT SELECTION
		pr.Post("/{shopID}/select", h.HandleSelect)
		pr.Post("/leave", h.HandleLeave)

		// SHOP OVERVIEW (needs a resolved shop)
		pr.Group(func(sr chi.Router) {
			sr.Use(shopctx.RequireShop)
			sr.Get("/{shopID}/overview", h.ServeShopOverview)
		})

		// SHOP SETTINGS (owner/manager)
		pr.Group(func(sr chi.Router) {
			sr.Use(shopctx.RequireShopRole(models.RoleOwner, models.RoleManager))
			sr.Get("/{shopID}/settings", h.ServeShopSettings)
			sr.Post("/{shopID}/settings", h.HandleUpdateShopSettings)
		})
	})

	return r
}
