// internal/app/features/team/invite.go
package team

import (
	"context"
	"net/http"
	"strings"

	invitestore "github.com/dalemusser/shophub/internal/app/store/invites"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
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

type inviteInput struct {
	Email string `validate:"required,max=254,email" label:"Email"`
}

type inviteFormVM struct {
	viewdata.BaseVM
	Error string
	Email string
	Role  string
	Roles []models.Role

	// InviteLink is set after a successful submit so the link can be
	// copied. Invites are delivered out of band.
	InviteLink string
}

// ServeInviteForm handles GET /shops/{shopID}/team/invite.
func (h *Handler) ServeInviteForm(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)

	templates.Render(w, r, "team/invite", inviteFormVM{
		BaseVM: viewdata.NewBaseVM(r, "Invite Member", "/shops/"+active.ShopID.Hex()+"/team"),
		Role:   string(models.RoleStaff),
		Roles:  models.AssignableRoles,
	})
}

// HandleInvite handles POST /shops/{shopID}/team/invite. A successful
// submit re-renders the form with the invite link to hand to the new
// member.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/team"

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	role := normalize.Role(r.FormValue("role"))

	vm := inviteFormVM{
		BaseVM: viewdata.NewBaseVM(r, "Invite Member", base),
		Email:  email,
		Role:   string(role),
		Roles:  models.AssignableRoles,
	}
	renderError := func(msg string) {
		vm.Error = msg
		templates.Render(w, r, "team/invite", vm)
	}

	if result := inputval.Validate(inviteInput{Email: email}); result.HasErrors() {
		renderError(result.First())
		return
	}
	if !models.IsAssignableRole(role) {
		renderError("Choose manager or staff.")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Invites.Create(ctx, active.ShopID, email, role, userID)
	switch err {
	case nil:
		h.Log.Info("invite created",
			zap.String("shop_id", active.ShopID.Hex()),
			zap.String("role", string(role)))
		vm.InviteLink = h.InviteLink(inv.Token)
		templates.Render(w, r, "team/invite", vm)
	case invitestore.ErrDuplicateInvite:
		renderError("This email already has a pending invite for this shop.")
	default:
		h.ErrLog.LogServerError(w, r, "DB create invite", err, "A server error occurred.", base)
	}
}

// InviteLink builds the absolute URL an invitee follows to accept. The
// configured base URL makes the link usable out of band (email, chat).
func (h *Handler) InviteLink(token string) string {
	return strings.TrimSuffix(h.BaseURL, "/") + "/invites/" + token
}

// HandleRevokeInvite handles POST /shops/{shopID}/team/invites/{inviteID}/revoke.
func (h *Handler) HandleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/team"

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "inviteID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad invite id", err, "Invalid invite.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Invites.Revoke(ctx, active.ShopID, inviteID); err {
	case nil:
		http.Redirect(w, r, base+"?notice=revoked", http.StatusSeeOther)
	case mongo.ErrNoDocuments:
		// Already revoked or accepted; the list page shows the current state.
		http.Redirect(w, r, base, http.StatusSeeOther)
	default:
		h.ErrLog.LogServerError(w, r, "DB revoke invite", err, "A server error occurred.", base)
	}
}
