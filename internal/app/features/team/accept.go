// internal/app/features/team/accept.go
package team

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	invitestore "github.com/dalemusser/shophub/internal/app/store/invites"
	membershipstore "github.com/dalemusser/shophub/internal/app/store/memberships"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/normalize"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type acceptVM struct {
	viewdata.BaseVM
	ShopName string
	Role     string
	Token    string
}

// ServeAcceptInvite handles GET /invites/{token}: the landing page of an
// invite link, showing what is being offered before the user commits.
func (h *Handler) ServeAcceptInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Invites.GetByToken(ctx, token)
	if err != nil {
		uierrors.RenderForbidden(w, r, "This invite link is not valid.", "/")
		return
	}
	if inv.Accepted() {
		uierrors.RenderForbidden(w, r, "This invite has already been used.", "/")
		return
	}
	if inv.Expired(time.Now().UTC()) {
		uierrors.RenderForbidden(w, r, "This invite has expired. Ask for a new one.", "/")
		return
	}

	vm := acceptVM{
		BaseVM: viewdata.NewBaseVM(r, "Join a Shop", "/"),
		Role:   string(inv.Role),
		Token:  token,
	}
	// Best effort; the invite is still presentable without the shop name.
	if shop, err := h.Shops.GetByID(ctx, inv.ShopID); err != nil {
		h.Log.Warn("invite shop fetch failed",
			zap.Error(err), zap.String("shop_id", inv.ShopID.Hex()))
		vm.ShopName = "a shop"
	} else {
		vm.ShopName = shop.Name
	}

	templates.Render(w, r, "team/accept", vm)
}

// HandleAcceptInvite handles POST /invites/{token}. The invite is marked
// used and the membership created; the new shop shows up in the member's
// shop list on their next page load.
func (h *Handler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/invites/"+token)
		return
	}
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/invites/"+token)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Invites are addressed: the signed-in account must match the email the
	// invite was issued to.
	inv, err := h.Invites.GetByToken(ctx, token)
	if err != nil {
		uierrors.RenderForbidden(w, r, "This invite link is not valid.", "/")
		return
	}
	if normalize.Email(u.Email) != inv.Email {
		uierrors.RenderForbidden(w, r, "This invite was issued to a different email address.", "/")
		return
	}

	inv, err = h.Invites.Accept(ctx, token, userID)
	switch err {
	case nil:
		// accepted, continue
	case invitestore.ErrInviteExpired:
		uierrors.RenderForbidden(w, r, "This invite has expired. Ask for a new one.", "/")
		return
	case invitestore.ErrInviteUsed:
		uierrors.RenderForbidden(w, r, "This invite has already been used.", "/")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB accept invite", err, "A server error occurred.", "/")
		return
	}

	switch err := h.Memberships.Add(ctx, inv.ShopID, userID, inv.Role); err {
	case nil:
		h.Log.Info("invite accepted",
			zap.String("shop_id", inv.ShopID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.String("role", string(inv.Role)))
	case membershipstore.ErrDuplicateMembership:
		// Already on the team; the accept stamp is harmless.
		h.Log.Info("invite accepted by existing member",
			zap.String("shop_id", inv.ShopID.Hex()),
			zap.String("user_id", userID.Hex()))
	default:
		h.ErrLog.LogServerError(w, r, "DB create membership", err, "A server error occurred.", "/")
		return
	}

	http.Redirect(w, r, "/shops/"+inv.ShopID.Hex()+"/overview", http.StatusSeeOther)
}
