package domain

import "context"

type Repository interface {
	FindAll(ctx context.Context) []Product
	Mutate(ctx context.Context, fn func([]Product) ([]Product, error)) error
}
