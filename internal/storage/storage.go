// Package storage builds the record store backend shared by the entity
// repositories from configuration.
package storage

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/observability/metrics"
	"github.com/smallbiznis/farmstand/pkg/db"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Factory hands every repository the same backend and store options.
type Factory struct {
	cfg     config.StoreConfig
	backend recordstore.Backend
	opts    []recordstore.Option
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

func New(p Params) (*Factory, error) {
	log := p.Log.Named("storage")

	backend, closer, err := OpenBackend(p.Config, log)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error { return closer() },
		})
	}

	log.Info("record store ready",
		zap.String("backend", backend.Name()),
		zap.Bool("strict", p.Config.Store.Strict),
		zap.String("products_format", p.Config.Store.ProductsFormat),
	)

	var recorder recordstore.Recorder
	if p.Metrics != nil {
		recorder = p.Metrics
	}
	return NewFactory(p.Config.Store, backend, p.Log, recorder), nil
}

// NewFactory wires a factory around an already opened backend.
func NewFactory(cfg config.StoreConfig, backend recordstore.Backend, log *zap.Logger, recorder recordstore.Recorder) *Factory {
	opts := []recordstore.Option{recordstore.WithLogger(log)}
	if recorder != nil {
		opts = append(opts, recordstore.WithMetrics(recorder))
	}
	if cfg.Strict {
		opts = append(opts, recordstore.WithStrictDurability())
	}
	return &Factory{cfg: cfg, backend: backend, opts: opts}
}

func (f *Factory) Backend() recordstore.Backend { return f.backend }

func (f *Factory) Options() []recordstore.Option {
	return append([]recordstore.Option(nil), f.opts...)
}

func (f *Factory) Config() config.StoreConfig { return f.cfg }

// OpenBackend opens the backend named by STORE_DRIVER. The returned closer,
// when non-nil, releases the underlying connection.
func OpenBackend(cfg config.Config, log *zap.Logger) (recordstore.Backend, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return recordstore.NewMemoryBackend(), nil, nil
	case config.StoreDriverDatabase:
		conn, err := db.Open(cfg.DB, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		backend, err := recordstore.NewGormBackend(conn)
		if err != nil {
			return nil, nil, fmt.Errorf("prepare collections table: %w", err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, nil, err
		}
		return backend, sqlDB.Close, nil
	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     strings.TrimSpace(cfg.Redis.Addr),
			Password: strings.TrimSpace(cfg.Redis.Password),
			DB:       cfg.Redis.DB,
		})
		return recordstore.NewRedisBackend(client, cfg.Redis.KeyPrefix), client.Close, nil
	default:
		return recordstore.NewFileBackend(cfg.Store.Dir), nil, nil
	}
}

var Module = fx.Module("storage",
	fx.Provide(New),
)
