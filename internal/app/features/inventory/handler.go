// internal/app/features/inventory/handler.go
package inventory

import (
	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	inventorystore "github.com/dalemusser/shophub/internal/app/store/inventory"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the inventory pages: per-shop stock management and the
// central view that aggregates items across every shop the user owns.
type Handler struct {
	Inventory *inventorystore.Store
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
}

// NewHandler constructs an inventory Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Inventory: inventorystore.New(db),
		Log:       logger,
		ErrLog:    errLog,
	}
}
