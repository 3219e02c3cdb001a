package domain

import (
	"time"

	"github.com/shopspring/decimal"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every order status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusPreparing,
		StatusReady,
		StatusCompleted,
		StatusCancelled,
	}
}

func (s Status) Valid() bool {
	for _, candidate := range Statuses() {
		if s == candidate {
			return true
		}
	}
	return false
}

// Normalize maps an empty or unknown status to pending.
func (s Status) Normalize() Status {
	if s.Valid() {
		return s
	}
	return StatusPending
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order references a product by slug and embeds the location it was
// resolved to.
type Order struct {
	ID            string                   `json:"id"`
	ProductID     string                   `json:"productId"`
	CustomerName  string                   `json:"customerName"`
	CustomerEmail string                   `json:"customerEmail,omitempty"`
	CustomerPhone string                   `json:"customerPhone"`
	Quantity      int                      `json:"quantity"`
	TotalAmount   decimal.Decimal          `json:"totalAmount"`
	Status        Status                   `json:"status"`
	LocationID    string                   `json:"locationId"`
	Location      *locationdomain.Location `json:"location,omitempty"`
	OrderDate     time.Time                `json:"orderDate"`
	DeliveryDate  *time.Time               `json:"deliveryDate,omitempty"`
	Notes         string                   `json:"notes,omitempty"`
	UpdatedAt     *time.Time               `json:"updatedAt,omitempty"`
}
