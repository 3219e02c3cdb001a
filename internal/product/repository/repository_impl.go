package repository

import (
	"context"

	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/internal/product/markdown"
	"github.com/smallbiznis/farmstand/internal/seed"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
	"go.uber.org/fx"
)

const Collection = "products"

type Params struct {
	fx.In

	Factory *storage.Factory
}

type repo struct {
	store *recordstore.Store[domain.Product]
}

// Provide stores products in the shared backend, or as markdown documents
// when PRODUCTS_FORMAT=markdown.
func Provide(p Params) domain.Repository {
	backend := p.Factory.Backend()
	if cfg := p.Factory.Config(); cfg.ProductsFormat == config.ProductsFormatMarkdown {
		backend = markdown.NewBackend(cfg.ProductsDir)
	}
	return New(recordstore.New(backend, Collection, seed.Products, p.Factory.Options()...))
}

func New(store *recordstore.Store[domain.Product]) domain.Repository {
	return &repo{store: store}
}

func (r *repo) FindAll(ctx context.Context) []domain.Product {
	return r.store.Load(ctx)
}

func (r *repo) Mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) error {
	return r.store.Mutate(ctx, fn)
}
