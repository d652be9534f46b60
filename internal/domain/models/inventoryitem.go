package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem is a stock item belonging to exactly one shop.
type InventoryItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShopID   primitive.ObjectID `bson:"shop_id" json:"shop_id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"name_ci"`
	Category string             `bson:"category,omitempty" json:"category,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Unit     string             `bson:"unit,omitempty" json:"unit,omitempty"`
	PhotoURL string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	LowStock bool               `bson:"low_stock" json:"low_stock"`
	Active   bool               `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
