// internal/app/features/settings/account.go
package settings

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type accountInput struct {
	Name string `validate:"required,max=80" label:"Name"`
}

type accountVM struct {
	viewdata.BaseVM
	Error    string
	Name     string
	Email    string
	Bookable bool
	Saved    bool
}

// ServeAccount handles GET /settings/account.
func (h *Handler) ServeAccount(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB load account", err, "A server error occurred.", "/overview")
		return
	}

	templates.Render(w, r, "settings/account", accountVM{
		BaseVM:   viewdata.NewBaseVM(r, "Account", "/overview"),
		Name:     u.Name,
		Email:    u.Email,
		Bookable: u.Bookable,
		Saved:    r.URL.Query().Get("saved") == "1",
	})
}

// HandleUpdateAccount handles POST /settings/account.
func (h *Handler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/settings/account")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	bookable := r.FormValue("bookable") == "on"

	if result := inputval.Validate(accountInput{Name: name}); result.HasErrors() {
		templates.Render(w, r, "settings/account", accountVM{
			BaseVM:   viewdata.NewBaseVM(r, "Account", "/overview"),
			Error:    result.First(),
			Name:     name,
			Bookable: bookable,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, userID, name, bookable); err != nil {
		h.ErrLog.LogServerError(w, r, "DB update profile", err, "A server error occurred.", "/settings/account")
		return
	}

	http.Redirect(w, r, "/settings/account?saved=1", http.StatusSeeOther)
}
