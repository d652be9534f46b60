// internal/app/features/team/inbox.go
package team

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/normalize"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type receivedRow struct {
	ID       string
	ShopName string
	Role     models.Role
	Expires  string
	Token    string
}

type sentRow struct {
	ID       string
	ShopName string
	Email    string
	Role     models.Role
	Status   string
}

type inboxVM struct {
	viewdata.BaseVM
	Received []receivedRow
	Sent     []sentRow
	Notice   string
}

// ServeInbox handles GET /inbox: invites addressed to the signed-in
// account's email, with accept and decline actions, plus the outcome of
// invites the account has sent.
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login?return=/inbox", http.StatusSeeOther)
		return
	}
	email := normalize.Email(u.Email)
	_, _, userID, _ := authz.UserCtx(r)

	vm := inboxVM{
		BaseVM: viewdata.NewBaseVM(r, "Inbox", "/overview"),
	}
	if r.URL.Query().Get("notice") == "declined" {
		vm.Notice = "Invite declined."
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	received, err := h.Invites.ListPendingByEmail(ctx, email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list inbox", err, "A server error occurred.", "/overview")
		return
	}

	// Sent invites are secondary; a fetch failure leaves the tab empty.
	sent, err := h.Invites.ListBySender(ctx, userID)
	if err != nil {
		h.Log.Warn("sent invites fetch failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		sent = nil
	}

	names := h.shopNames(ctx, received, sent)
	now := time.Now().UTC()

	for _, inv := range received {
		vm.Received = append(vm.Received, receivedRow{
			ID:       inv.ID.Hex(),
			ShopName: names[inv.ShopID],
			Role:     inv.Role,
			Expires:  inv.ExpiresAt.Format("Jan 2, 2006"),
			Token:    inv.Token,
		})
	}
	for _, inv := range sent {
		vm.Sent = append(vm.Sent, sentRow{
			ID:       inv.ID.Hex(),
			ShopName: names[inv.ShopID],
			Email:    inv.Email,
			Role:     inv.Role,
			Status:   inviteStatus(inv, now),
		})
	}

	templates.Render(w, r, "team/inbox", vm)
}

// HandleDeclineInvite handles POST /inbox/{inviteID}/decline. The store
// only deletes an invite addressed to the caller's own email.
func (h *Handler) HandleDeclineInvite(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login?return=/inbox", http.StatusSeeOther)
		return
	}
	email := normalize.Email(u.Email)

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "inviteID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad invite id", err, "Invalid invite.", "/inbox")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Invites.Decline(ctx, inviteID, email); err {
	case nil:
		h.Log.Info("invite declined",
			zap.String("invite_id", inviteID.Hex()))
		http.Redirect(w, r, "/inbox?notice=declined", http.StatusSeeOther)
	case mongo.ErrNoDocuments:
		// Not addressed to this account, already gone, or already accepted.
		http.Redirect(w, r, "/inbox", http.StatusSeeOther)
	default:
		h.ErrLog.LogServerError(w, r, "DB decline invite", err, "A server error occurred.", "/inbox")
	}
}

// shopNames batch-fetches the names of every shop referenced by the given
// invites. Missing shops fall back to a placeholder.
func (h *Handler) shopNames(ctx context.Context, lists ...[]models.Invite) map[primitive.ObjectID]string {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, invs := range lists {
		for _, inv := range invs {
			if !seen[inv.ShopID] {
				seen[inv.ShopID] = true
				ids = append(ids, inv.ShopID)
			}
		}
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	for id := range seen {
		names[id] = "a shop"
	}
	if len(ids) == 0 {
		return names
	}
	shops, err := h.Shops.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("inbox shop names fetch failed", zap.Error(err))
		return names
	}
	for _, s := range shops {
		names[s.ID] = s.Name
	}
	return names
}

func inviteStatus(inv models.Invite, now time.Time) string {
	switch {
	case inv.Accepted():
		return "accepted"
	case inv.Expired(now):
		return "expired"
	default:
		return "pending"
	}
}
