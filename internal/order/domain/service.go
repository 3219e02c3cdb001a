package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	Update(ctx context.Context, patch Patch) (*Order, error)
	Delete(ctx context.Context, id string) (*Order, error)
}

type ListRequest struct {
	Status     string
	LocationID string
}

type CreateRequest struct {
	ProductID     string           `json:"productId" validate:"required"`
	CustomerName  string           `json:"customerName" validate:"required"`
	CustomerEmail string           `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string           `json:"customerPhone"`
	Quantity      *int             `json:"quantity"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	Status        string           `json:"status"`
	LocationID    string           `json:"locationId"`
	DeliveryDate  *time.Time       `json:"deliveryDate"`
	Notes         string           `json:"notes"`
}

// Patch carries the order id and the fields to change.
type Patch struct {
	ID            string           `json:"id"`
	ProductID     *string          `json:"productId"`
	CustomerName  *string          `json:"customerName"`
	CustomerEmail *string          `json:"customerEmail"`
	CustomerPhone *string          `json:"customerPhone"`
	Quantity      *int             `json:"quantity"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	Status        *string          `json:"status"`
	LocationID    *string          `json:"locationId"`
	DeliveryDate  *time.Time       `json:"deliveryDate"`
	Notes         *string          `json:"notes"`
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidProduct    = errors.New("invalid_product_id")
	ErrInvalidCustomer   = errors.New("invalid_customer_name")
	ErrInvalidEmail      = errors.New("invalid_customer_email")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidAmount     = errors.New("invalid_total_amount")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrNotFound          = errors.New("order_not_found")
)
