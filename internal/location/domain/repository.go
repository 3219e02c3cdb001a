package domain

import "context"

type Repository interface {
	FindAll(ctx context.Context) []Location
	// Mutate runs fn against the current collection and persists its result.
	Mutate(ctx context.Context, fn func([]Location) ([]Location, error)) error
}
