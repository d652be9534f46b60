// internal/app/features/bookings/handler.go
package bookings

import (
	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	bookingstore "github.com/dalemusser/shophub/internal/app/store/bookings"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the booking pages: the weekly calendar every team member
// sees, and the managerial list, creation, and status flows.
type Handler struct {
	Bookings *bookingstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a bookings Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Bookings: bookingstore.New(db),
		Log:      logger,
		ErrLog:   errLog,
	}
}
