// internal/app/features/team/members.go
package team

import (
	"context"
	"net/http"

	membershipstore "github.com/dalemusser/shophub/internal/app/store/memberships"
	"github.com/dalemusser/shophub/internal/app/system/normalize"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memberRow struct {
	UserID  string
	Name    string
	Email   string
	Role    models.Role
	IsOwner bool
}

type inviteRow struct {
	ID      string
	Email   string
	Role    models.Role
	Expires string
}

type teamVM struct {
	viewdata.BaseVM
	Members []memberRow
	Pending []inviteRow
	Roles   []models.Role
	Notice  string
}

// ServeTeam handles GET /shops/{shopID}/team. Routing guarantees an active
// shop with a managerial role.
func (h *Handler) ServeTeam(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex()

	vm := teamVM{
		BaseVM: viewdata.NewBaseVM(r, "Team", base+"/overview"),
		Roles:  models.AssignableRoles,
	}
	switch r.URL.Query().Get("notice") {
	case "invited":
		vm.Notice = "Invite sent."
	case "revoked":
		vm.Notice = "Invite revoked."
	case "removed":
		vm.Notice = "Member removed."
	case "role":
		vm.Notice = "Role updated."
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Memberships.ListByShop(ctx, active.ShopID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list team", err, "A server error occurred.", base+"/overview")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB load members", err, "A server error occurred.", base+"/overview")
		return
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, m := range members {
		row := memberRow{
			UserID:  m.UserID.Hex(),
			Role:    m.Role,
			IsOwner: m.Role == models.RoleOwner,
		}
		if u, ok := byID[m.UserID]; ok {
			row.Name = u.Name
			row.Email = u.Email
		} else {
			// Membership of a deleted account; keep the row so it can be
			// removed from here.
			row.Name = "(deleted account)"
		}
		vm.Members = append(vm.Members, row)
	}

	// Pending invites are informational; the list still renders without them.
	if pending, err := h.Invites.ListPendingByShop(ctx, active.ShopID); err != nil {
		h.Log.Warn("pending invites fetch failed",
			zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
	} else {
		for _, inv := range pending {
			vm.Pending = append(vm.Pending, inviteRow{
				ID:      inv.ID.Hex(),
				Email:   inv.Email,
				Role:    inv.Role,
				Expires: inv.ExpiresAt.Format("Jan 2, 2006"),
			})
		}
	}

	templates.Render(w, r, "team/list", vm)
}

// HandleChangeRole handles POST /shops/{shopID}/team/{userID}/role. Only
// manager and staff are assignable; the owner row has no role form.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/team"

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "Invalid team member.", base)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	role := normalize.Role(r.FormValue("role"))
	if !models.IsAssignableRole(role) {
		h.ErrLog.LogBadRequest(w, r, "bad role", nil, "Choose manager or staff.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Memberships.UpdateRole(ctx, active.ShopID, userID, role); err {
	case nil:
		h.Log.Info("team role changed",
			zap.String("shop_id", active.ShopID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.String("role", string(role)))
		http.Redirect(w, r, base+"?notice=role", http.StatusSeeOther)
	case membershipstore.ErrOwnerMembership:
		h.ErrLog.LogForbidden(w, r, "owner role change", "The owner's role cannot be changed.", base)
	case mongo.ErrNoDocuments:
		h.ErrLog.LogBadRequest(w, r, "membership gone", err, "This person is no longer a member.", base)
	default:
		h.ErrLog.LogServerError(w, r, "DB update role", err, "A server error occurred.", base)
	}
}

// HandleRemoveMember handles POST /shops/{shopID}/team/{userID}/remove.
// The change takes effect on the member's next request, when the fresh
// membership list no longer resolves this shop.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/team"

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "Invalid team member.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Memberships.Remove(ctx, active.ShopID, userID); err {
	case nil:
		h.Log.Info("team member removed",
			zap.String("shop_id", active.ShopID.Hex()),
			zap.String("user_id", userID.Hex()))
		http.Redirect(w, r, base+"?notice=removed", http.StatusSeeOther)
	case membershipstore.ErrOwnerMembership:
		h.ErrLog.LogForbidden(w, r, "owner removal", "The owner cannot be removed. Delete the shop instead.", base)
	case mongo.ErrNoDocuments:
		h.ErrLog.LogBadRequest(w, r, "membership gone", err, "This person is no longer a member.", base)
	default:
		h.ErrLog.LogServerError(w, r, "DB remove member", err, "A server error occurred.", base)
	}
}
