package domain

import "context"

type Repository interface {
	FindAll(ctx context.Context) []Order
	Mutate(ctx context.Context, fn func([]Order) ([]Order, error)) error
}
