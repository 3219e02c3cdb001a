package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/farmstand/internal/analytics"
	analyticsdomain "github.com/smallbiznis/farmstand/internal/analytics/domain"
	"github.com/smallbiznis/farmstand/internal/blob"
	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/location"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	"github.com/smallbiznis/farmstand/internal/observability"
	obsmiddleware "github.com/smallbiznis/farmstand/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/farmstand/internal/observability/metrics"
	"github.com/smallbiznis/farmstand/internal/order"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	"github.com/smallbiznis/farmstand/internal/product"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/smallbiznis/farmstand/internal/upload"
	uploaddomain "github.com/smallbiznis/farmstand/internal/upload/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	storage.Module,
	blob.Module,
	location.Module,
	product.Module,
	order.Module,
	analytics.Module,
	upload.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, registry)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	locationSvc  locationdomain.Service
	productSvc   productdomain.Service
	orderSvc     orderdomain.Service
	analyticsSvc analyticsdomain.Service
	uploadSvc    uploaddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Log          *zap.Logger
	LocationSvc  locationdomain.Service
	ProductSvc   productdomain.Service
	OrderSvc     orderdomain.Service
	AnalyticsSvc analyticsdomain.Service
	UploadSvc    uploaddomain.Service
}

func NewServer(p ServerParams) *Server {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Server{
		engine:       p.Gin,
		log:          log.Named("http.server"),
		locationSvc:  p.LocationSvc,
		productSvc:   p.ProductSvc,
		orderSvc:     p.OrderSvc,
		analyticsSvc: p.AnalyticsSvc,
		uploadSvc:    p.UploadSvc,
	}
	svc.RegisterAPIRoutes()
	return svc
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/products", s.ListProducts)
		api.GET("/products/:slug", s.GetProduct)
		api.POST("/products", s.CreateProduct)
		api.PUT("/products", s.UpdateProduct)
		api.DELETE("/products", s.DeleteProduct)

		api.GET("/locations", s.ListLocations)
		api.GET("/locations/:id", s.GetLocation)
		api.POST("/locations", s.CreateLocation)
		api.PUT("/locations", s.UpdateLocation)
		api.DELETE("/locations", s.DeleteLocation)
		api.POST("/locations/reconcile", s.ReconcileLocations)

		api.GET("/orders", s.ListOrders)
		api.GET("/orders/:id", s.GetOrder)
		api.POST("/orders", s.CreateOrder)
		api.PUT("/orders", s.UpdateOrder)
		api.DELETE("/orders", s.DeleteOrder)

		api.POST("/upload", s.UploadImage)
		api.DELETE("/upload", s.DeleteUpload)

		api.GET("/analytics", s.GetAnalytics)
	}

	s.engine.GET(uploaddomain.URLPrefix+"*key", s.ServeUpload)
}
