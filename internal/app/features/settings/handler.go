// internal/app/features/settings/handler.go
package settings

import (
	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the account-level settings pages, as opposed to the
// per-shop settings that live in the shops feature.
type Handler struct {
	Users  *userstore.Store
	Shops  *shopstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a settings Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Shops:  shopstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
