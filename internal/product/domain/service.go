package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, slug string) (*Product, error)
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Update(ctx context.Context, slug string, patch Patch) (*Product, error)
	Delete(ctx context.Context, slug string) (*Product, error)
	IncrementOrders(ctx context.Context, slug string) error
	// DecrementOrders reverses IncrementOrders. The counter never drops below zero.
	DecrementOrders(ctx context.Context, slug string) error
	// CountByLocation returns how many products reference each location id.
	CountByLocation(ctx context.Context) (map[string]int, error)
}

type ListRequest struct {
	Category   string
	Featured   *bool
	LocationID string
}

type CreateRequest struct {
	Title        string `json:"title" validate:"required"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	Availability string `json:"availability"`
	Featured     bool   `json:"featured"`
	Image        string `json:"image"`
	Content      string `json:"content"`
	Stock        int    `json:"stock" validate:"gte=0"`
	LocationID   string `json:"locationId"`
}

// Patch lists the mutable product fields. The slug never changes.
type Patch struct {
	Title        *string `json:"title"`
	Category     *string `json:"category"`
	Price        *string `json:"price"`
	Availability *string `json:"availability"`
	Featured     *bool   `json:"featured"`
	Image        *string `json:"image"`
	Content      *string `json:"content"`
	Stock        *int    `json:"stock"`
	LocationID   *string `json:"locationId"`
}

var (
	ErrInvalidTitle        = errors.New("invalid_title")
	ErrInvalidSlug         = errors.New("invalid_slug")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidAvailability = errors.New("invalid_availability")
	ErrInvalidStock        = errors.New("invalid_stock")
	ErrNotFound            = errors.New("product_not_found")
)
