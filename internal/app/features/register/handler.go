// internal/app/features/register/handler.go
package register

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
	"github.com/dalemusser/shophub/internal/app/system/normalize"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

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

type registerInput struct {
	Name  string `validate:"required,max=80" label:"Name"`
	Email string `validate:"required,max=254,email" label:"Email"`
}

type registerFormData struct {
	viewdata.BaseVM
	Error string
	Name  string
	Email string
	Tier  string
	Tiers []models.Tier
}

func (h *Handler) formData(r *http.Request, name, email, tier string) registerFormData {
	return registerFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create account", "/"),
		Name:   name,
		Email:  email,
		Tier:   tier,
		Tiers:  models.AllTiers,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", h.formData(r, "", "", string(models.DefaultTier)))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")
	tier := normalize.Tier(r.FormValue("tier"))

	renderError := func(msg string) {
		data := h.formData(r, name, email, string(tier))
		data.Error = msg
		templates.Render(w, r, "register", data)
	}

	if result := inputval.Validate(registerInput{Name: name, Email: email}); result.HasErrors() {
		renderError(result.First())
		return
	}
	if len(password) < minPasswordLen {
		renderError("Password must be at least 8 characters.")
		return
	}
	if password != confirm {
		renderError("Passwords do not match.")
		return
	}
	if !models.IsValidTier(tier) {
		renderError("Please choose a plan.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Tier:         tier,
	})
	switch err {
	case nil:
		// created, continue
	case userstore.ErrDuplicateEmail:
		renderError("An account with this email already exists.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB create user", err, "A server error occurred.", "/register")
		return
	}

	if err := h.SessionMgr.Establish(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed after registration",
			zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("tier", string(u.Tier)))
	http.Redirect(w, r, "/overview", http.StatusSeeOther)
}
