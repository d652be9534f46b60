// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	switch err {
	case nil:
		// found, continue
	case mongo.ErrNoDocuments:
		// Same message as a wrong password so the form doesn't leak which
		// emails have accounts.
		h.renderFormWithError(w, r, "Incorrect email or password.", email)
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if !u.Active {
		h.renderFormWithError(w, r,
			"Your account is currently disabled. Please contact support.", email)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		h.Log.Info("login failed: bad password", zap.String("user_id", u.ID.Hex()))
		h.renderFormWithError(w, r, "Incorrect email or password.", email)
		return
	}

	// A corrupt or foreign session cookie must not block login; Establish
	// starts over from a fresh session either way.
	if _, err := h.SessionMgr.GetSession(r); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		} else {
			h.Log.Error("session store error during login, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		}
	}

	if err := h.SessionMgr.Establish(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", email)
		return
	}

	ret := strings.TrimSpace(r.FormValue("return"))
	dest := urlutil.SafeReturn(ret, "", "/overview")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: strings.TrimSpace(r.FormValue("return")),
	})
}
