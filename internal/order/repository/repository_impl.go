package repository

import (
	"context"

	"github.com/smallbiznis/farmstand/internal/order/domain"
	"github.com/smallbiznis/farmstand/internal/seed"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const Collection = "orders"

type Params struct {
	fx.In

	Factory *storage.Factory
	Log     *zap.Logger `optional:"true"`
}

type repo struct {
	store *recordstore.Store[domain.Order]
	log   *zap.Logger
}

func Provide(p Params) domain.Repository {
	r := New(recordstore.New(p.Factory.Backend(), Collection, seed.Orders, p.Factory.Options()...)).(*repo)
	if p.Log != nil {
		r.log = p.Log.Named("order.repository")
	}
	return r
}

func New(store *recordstore.Store[domain.Order]) domain.Repository {
	return &repo{store: store, log: zap.NewNop()}
}

// FindAll returns the stored orders with statuses outside the known set read
// as pending, so every loaded order lands in exactly one status bucket.
func (r *repo) FindAll(ctx context.Context) []domain.Order {
	return r.normalize(r.store.Load(ctx))
}

func (r *repo) Mutate(ctx context.Context, fn func([]domain.Order) ([]domain.Order, error)) error {
	return r.store.Mutate(ctx, func(items []domain.Order) ([]domain.Order, error) {
		return fn(r.normalize(items))
	})
}

func (r *repo) normalize(items []domain.Order) []domain.Order {
	for i := range items {
		if status := items[i].Status; !status.Valid() {
			r.log.Warn("order has unknown status, reading as pending",
				zap.String("order_id", items[i].ID),
				zap.String("status", string(status)),
			)
			items[i].Status = domain.StatusPending
		}
	}
	return items
}
