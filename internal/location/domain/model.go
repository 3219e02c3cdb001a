package domain

import "time"

// Location is a farm site or pickup point products are sold from.
type Location struct {
	ID                  string              `json:"id" yaml:"id"`
	Name                string              `json:"name" yaml:"name"`
	Address             string              `json:"address" yaml:"address"`
	Coordinates         *Coordinates        `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Manager             string              `json:"manager" yaml:"manager"`
	Phone               string              `json:"phone" yaml:"phone"`
	IsActive            bool                `json:"isActive" yaml:"isActive"`
	Products            int                 `json:"products" yaml:"products"`
	ProductAvailability []AvailabilityEntry `json:"productAvailability,omitempty" yaml:"productAvailability,omitempty"`
	CreatedAt           time.Time           `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           *time.Time          `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// AvailabilityEntry advertises what a location expects to have on hand.
type AvailabilityEntry struct {
	Name          string         `json:"name" yaml:"name"`
	Status        string         `json:"status" yaml:"status"`
	AvailableDate string         `json:"availableDate,omitempty" yaml:"availableDate,omitempty"`
	Category      string         `json:"category,omitempty" yaml:"category,omitempty"`
	Details       map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}
