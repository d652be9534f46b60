package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite is a pending offer to join a shop's team with a given role.
// The token is a random UUID handed out in the invite link; accepting
// creates the membership and stamps AcceptedAt.
type Invite struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ShopID     primitive.ObjectID  `bson:"shop_id" json:"shop_id"`
	Email      string              `bson:"email" json:"email"`
	Role       Role                `bson:"role" json:"role"`
	Token      string              `bson:"token" json:"-"`
	InvitedBy  primitive.ObjectID  `bson:"invited_by" json:"invited_by"`
	ExpiresAt  time.Time           `bson:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time          `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	AcceptedBy *primitive.ObjectID `bson:"accepted_by,omitempty" json:"accepted_by,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}

// Expired reports whether the invite can no longer be accepted.
func (i Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Accepted reports whether the invite has already been used.
func (i Invite) Accepted() bool {
	return i.AcceptedAt != nil
}
