package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopMembership is the authoritative join between users and shops.
// Exactly one document per (shop_id, user_id); role is a scalar
// ("owner" | "manager" | "staff"). ShopName is denormalized so the
// membership list can be displayed without a second lookup.
type ShopMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShopID    primitive.ObjectID `bson:"shop_id" json:"shop_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ShopName  string             `bson:"shop_name" json:"shop_name"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Membership is the read model carried on the session principal: one entry
// per shop the user belongs to, in membership-creation order.
type Membership struct {
	ShopID   primitive.ObjectID `json:"shop_id"`
	ShopName string             `json:"shop_name"`
	Role     Role               `json:"role"`
}
