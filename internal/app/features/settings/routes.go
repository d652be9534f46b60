// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/account", h.ServeAccount)
		pr.Post("/account", h.HandleUpdateAccount)
		pr.Get("/billing", h.ServeBilling)
		pr.Post("/billing", h.HandleChangeTier)
	})

	return r
}
