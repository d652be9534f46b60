// internal/app/features/bookings/routes.go
package bookings

import (
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ShopRoutes builds the managerial booking router, mounted under
// /shops/{shopID}/bookings.
func ShopRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(shopctx.RequireShopRole(models.RoleOwner, models.RoleManager))

		pr.Get("/", h.ServeBookings)
		pr.Get("/new", h.ServeNewBooking)
		pr.Post("/", h.HandleCreateBooking)
		pr.Post("/{bookingID}/status", h.HandleUpdateStatus)
	})

	return r
}

// CalendarRoutes builds the calendar router, mounted under
// /shops/{shopID}/calendar. Staff see the calendar too.
func CalendarRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(shopctx.RequireShop)

		pr.Get("/", h.ServeCalendar)
	})

	return r
}
