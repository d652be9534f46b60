// internal/app/features/team/routes.go
package team

import (
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ShopRoutes builds the per-shop team router, mounted under
// /shops/{shopID}/team. Managing the team is managerial.
func ShopRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(shopctx.RequireShopRole(models.RoleOwner, models.RoleManager))

		pr.Get("/", h.ServeTeam)
		pr.Get("/invite", h.ServeInviteForm)
		pr.Post("/invite", h.HandleInvite)
		pr.Post("/invites/{inviteID}/revoke", h.HandleRevokeInvite)
		pr.Post("/{userID}/role", h.HandleChangeRole)
		pr.Post("/{userID}/remove", h.HandleRemoveMember)
	})

	return r
}

// InboxRoutes builds the recipient-side inbox router, mounted at /inbox.
// Invites addressed to the signed-in email are listed there with accept
// and decline actions.
func InboxRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeInbox)
		pr.Post("/{inviteID}/decline", h.HandleDeclineInvite)
	})

	return r
}

// InviteRoutes builds the invite-link router, mounted at /invites. The
// landing page is public so a link can be previewed before signing in;
// accepting requires an account.
func InviteRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/{token}", h.ServeAcceptInvite)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{token}", h.HandleAcceptInvite)
	})

	return r
}
