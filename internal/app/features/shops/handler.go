// internal/app/features/shops/handler.go
package shops

import (
	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	bookingstore "github.com/dalemusser/shophub/internal/app/store/bookings"
	inventorystore "github.com/dalemusser/shophub/internal/app/store/inventory"
	membershipstore "github.com/dalemusser/shophub/internal/app/store/memberships"
	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all shop handlers: the list, creation, explicit selection and
// leave, the per-shop overview, and shop settings.
type Handler struct {
	Shops       *shopstore.Store
	Memberships *membershipstore.Store
	Inventory   *inventorystore.Store
	Bookings    *bookingstore.Store
	Log         *zap.Logger
	SessionMgr  *auth.SessionManager
	ErrLog      *uierrors.ErrorLogger
}

// NewHandler constructs a shops Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Shops:       shopstore.New(db),
		Memberships: membershipstore.New(db),
		Inventory:   inventorystore.New(db),
		Bookings:    bookingstore.New(db),
		Log:         logger,
		SessionMgr:  sessionMgr,
		ErrLog:      errLog,
	}
}
