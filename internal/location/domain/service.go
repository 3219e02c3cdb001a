package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Location, error)
	Get(ctx context.Context, id string) (*Location, error)
	Create(ctx context.Context, req CreateRequest) (*Location, error)
	Update(ctx context.Context, id string, patch Patch) (*Location, error)
	Delete(ctx context.Context, id string) (*Location, error)

	// Resolve finds the location a product or order should embed. When id is
	// unknown the first location is returned with fallback set; nil means the
	// collection is empty.
	Resolve(ctx context.Context, id string) (loc *Location, fallback bool, err error)
	AdjustProductCount(ctx context.Context, id string, delta int) error
	Reconcile(ctx context.Context, counts map[string]int) ([]Location, error)
}

type ListRequest struct {
	ActiveOnly bool
}

type CreateRequest struct {
	Name                string              `json:"name" validate:"required"`
	Address             string              `json:"address"`
	Coordinates         *Coordinates        `json:"coordinates"`
	Manager             string              `json:"manager"`
	Phone               string              `json:"phone"`
	IsActive            *bool               `json:"isActive"`
	ProductAvailability []AvailabilityEntry `json:"productAvailability"`
}

// Patch lists the mutable location fields; nil leaves a field unchanged.
type Patch struct {
	Name                *string              `json:"name"`
	Address             *string              `json:"address"`
	Coordinates         *Coordinates         `json:"coordinates"`
	Manager             *string              `json:"manager"`
	Phone               *string              `json:"phone"`
	IsActive            *bool                `json:"isActive"`
	ProductAvailability *[]AvailabilityEntry `json:"productAvailability"`
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("location_not_found")
)
