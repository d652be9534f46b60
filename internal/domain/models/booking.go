package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses.
const (
	BookingBooked    = "booked"
	BookingDone      = "done"
	BookingCancelled = "cancelled"
)

// Booking is a customer appointment at a shop.
type Booking struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShopID       primitive.ObjectID `bson:"shop_id" json:"shop_id"`
	CustomerName string             `bson:"customer_name" json:"customer_name"`
	Service      string             `bson:"service,omitempty" json:"service,omitempty"`
	StartsAt     time.Time          `bson:"starts_at" json:"starts_at"`
	EndsAt       time.Time          `bson:"ends_at" json:"ends_at"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       string             `bson:"status" json:"status"`
	CreatedBy    primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
