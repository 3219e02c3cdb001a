package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/farmstand/internal/analytics/domain"
	"github.com/smallbiznis/farmstand/internal/clock"
	"github.com/smallbiznis/farmstand/internal/config"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Config    config.Config
	Log       *zap.Logger
	Clock     clock.Clock
	Products  productdomain.Service
	Locations locationdomain.Service
	Orders    orderdomain.Service
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	tz        *time.Location
	products  productdomain.Service
	locations locationdomain.Service
	orders    orderdomain.Service
}

func New(p Params) domain.Service {
	log := p.Log.Named("analytics.service")
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		log:       log,
		clock:     clk,
		tz:        loadTimezone(p.Config.Analytics.Timezone, log),
		products:  p.Products,
		locations: p.Locations,
		orders:    p.Orders,
	}
}

// Dashboard loads the three collections side by side and summarizes them.
func (s *Service) Dashboard(ctx context.Context) (*domain.Analytics, error) {
	var (
		products  []productdomain.Product
		locations []locationdomain.Location
		orders    []orderdomain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx, productdomain.ListRequest{})
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = s.locations.List(gctx, locationdomain.ListRequest{})
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.List(gctx, orderdomain.ListRequest{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := Compute(products, locations, orders, s.clock.Now(), s.tz)
	return &out, nil
}

func loadTimezone(name string, log *zap.Logger) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown analytics timezone, using server local time", zap.String("timezone", name), zap.Error(err))
		return time.Local
	}
	return tz
}
