package domain

import (
	"time"

	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
)

type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryPoultry    Category = "poultry"
	CategoryIce        Category = "ice"
	CategoryOther      Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryVegetables, CategoryPoultry, CategoryIce, CategoryOther:
		return true
	}
	return false
}

type Availability string

const (
	AvailabilityInStock      Availability = "In Stock"
	AvailabilityOutOfStock   Availability = "Out of Stock"
	AvailabilityLimitedStock Availability = "Limited Stock"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityInStock, AvailabilityOutOfStock, AvailabilityLimitedStock:
		return true
	}
	return false
}

// Product is keyed by its slug. Location is a snapshot of the referenced
// location taken when the product was written.
type Product struct {
	Slug         string                   `json:"slug" yaml:"slug"`
	Title        string                   `json:"title" yaml:"title"`
	Category     Category                 `json:"category" yaml:"category"`
	Price        string                   `json:"price" yaml:"price"`
	Availability Availability             `json:"availability" yaml:"availability"`
	Featured     bool                     `json:"featured" yaml:"featured"`
	Image        string                   `json:"image" yaml:"image"`
	Content      string                   `json:"content" yaml:"-"`
	Stock        int                      `json:"stock" yaml:"stock"`
	Orders       int                      `json:"orders" yaml:"orders"`
	LocationID   string                   `json:"locationId" yaml:"locationId"`
	Location     *locationdomain.Location `json:"location,omitempty" yaml:"location,omitempty"`
	CreatedAt    time.Time                `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt" yaml:"updatedAt"`
}
