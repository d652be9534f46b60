package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekdays in opening-hours order.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// HourRange is one weekday's opening hours for a shop.
type HourRange struct {
	Day    string `bson:"day" json:"day"`
	Open   string `bson:"open" json:"open"`   // "09:00"
	Close  string `bson:"close" json:"close"` // "17:30"
	Closed bool   `bson:"closed" json:"closed"`
}

// Shop is a tenant: an isolated business unit users belong to with a role.
// The extended fields (address, hours, counts) are display detail; role
// resolution never depends on them.
type Shop struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"` // sanitized HTML
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	OpeningHours []HourRange `bson:"opening_hours,omitempty" json:"opening_hours,omitempty"`

	// Status: "active" or "disabled".
	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
