// internal/app/features/team/handler.go
package team

import (
	uierrors "github.com/dalemusser/shophub/internal/app/features/errors"
	invitestore "github.com/dalemusser/shophub/internal/app/store/invites"
	membershipstore "github.com/dalemusser/shophub/internal/app/store/memberships"
	shopstore "github.com/dalemusser/shophub/internal/app/store/shops"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the team pages: the member list, role changes and removal,
// and the invite lifecycle from issuing a link to accepting it.
type Handler struct {
	Memberships *membershipstore.Store
	Invites     *invitestore.Store
	Users       *userstore.Store
	Shops       *shopstore.Store

	// BaseURL is the externally reachable origin, used to build absolute
	// invite links that can be handed to people outside the app.
	BaseURL string

	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a team Handler.
func NewHandler(db *mongo.Database, baseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Memberships: membershipstore.New(db),
		Invites:     invitestore.New(db),
		Users:       userstore.New(db),
		Shops:       shopstore.New(db),
		BaseURL:     baseURL,
		Log:         logger,
		ErrLog:      errLog,
	}
}
