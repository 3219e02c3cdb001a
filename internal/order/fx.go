package order

import (
	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/order/domain"
	"github.com/smallbiznis/farmstand/internal/order/repository"
	"github.com/smallbiznis/farmstand/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(provideTransitionPolicy),
	fx.Provide(service.New),
)

func provideTransitionPolicy(cfg config.Config) domain.TransitionPolicy {
	return domain.PolicyFor(cfg.Orders.StrictTransitions)
}
