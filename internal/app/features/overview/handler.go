// internal/app/features/overview/handler.go
package overview

import (
	"context"
	"net/http"

	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in landing page: the user's shops and a few
// account-level numbers.
type Handler struct {
	Shops *shopstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Shops: shopstore.New(db),
		Log:   logger,
	}
}

type membershipRow struct {
	ID   string
	Name string
	Role models.Role
}

type overviewVM struct {
	viewdata.BaseVM
	Memberships []membershipRow
	OwnedShops  int64
	ShopLimit   int64
	CanCreate   bool
	Loading     bool
}

// ServeOverview handles GET /overview.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	vm := overviewVM{
		BaseVM:    viewdata.NewBaseVM(r, "Overview", "/"),
		CanCreate: authz.CanCreateShops(r),
		Loading:   u != nil && !u.ShopsLoaded,
	}
	if vm.Tier == models.TierStarter {
		vm.ShopLimit = models.StarterShopLimit
	}

	if u != nil {
		for _, m := range u.Shops {
			vm.Memberships = append(vm.Memberships, membershipRow{
				ID:   m.ShopID.Hex(),
				Name: m.ShopName,
				Role: m.Role,
			})
		}
	}

	if vm.CanCreate {
		_, _, userID, _ := authz.UserCtx(r)
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if n, err := h.Shops.CountByOwner(ctx, userID); err != nil {
			h.Log.Warn("count owned shops failed", zap.Error(err))
		} else {
			vm.OwnedShops = n
		}
	}

	templates.Render(w, r, "overview", vm)
}
