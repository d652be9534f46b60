package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the authenticated principal. Shop membership is not embedded
// here; use the shop_memberships collection to discover a user's shops.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"email_ci"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	// Tier is the subscription level: member | starter | pro.
	Tier Tier `bson:"tier" json:"tier"`

	Active   bool `bson:"active" json:"active"`
	Bookable bool `bson:"bookable" json:"bookable"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
