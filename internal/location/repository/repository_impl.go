package repository

import (
	"context"

	"github.com/smallbiznis/farmstand/internal/location/domain"
	"github.com/smallbiznis/farmstand/internal/seed"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
	"go.uber.org/fx"
)

const Collection = "locations"

type Params struct {
	fx.In

	Factory *storage.Factory
}

type repo struct {
	store *recordstore.Store[domain.Location]
}

func Provide(p Params) domain.Repository {
	return New(recordstore.New(p.Factory.Backend(), Collection, seed.Locations, p.Factory.Options()...))
}

func New(store *recordstore.Store[domain.Location]) domain.Repository {
	return &repo{store: store}
}

func (r *repo) FindAll(ctx context.Context) []domain.Location {
	return r.store.Load(ctx)
}

func (r *repo) Mutate(ctx context.Context, fn func([]domain.Location) ([]domain.Location, error)) error {
	return r.store.Mutate(ctx, fn)
}
