package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/http/handlers"
	"courier-dispatch/internal/http/middleware/ratelimit"
	"courier-dispatch/internal/http/pprofserver"
	"courier-dispatch/internal/http/router"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/registry"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/delivery"
	"courier-dispatch/internal/transport/ws"
)

type routerIn struct {
	dig.In

	Config     *config.Config
	Logger     logx.Logger
	Registry   *prometheus.Registry
	Handlers   *handlers.Handlers
	Couriers   *handlers.CourierHandler
	Deliveries *handlers.DeliveryHandler
	CourierWS  *ws.CourierHandler
	CustomerWS *ws.CustomerHandler
	RateLimit  *ratelimit.Middleware
}

func newRouter(in routerIn) http.Handler {
	// свои метрики плюс дефолтные (go runtime, http middleware)
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, in.Registry}
	opts := []router.Option{
		router.WithLogger(in.Logger),
		router.WithWebsockets(in.CourierWS, in.CustomerWS),
		router.WithRateLimit(in.RateLimit.Handler()),
		router.WithMetrics(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})),
	}
	if in.Config.Pprof.Enabled {
		opts = append(opts, router.WithPprof(pprofserver.Handler(pprofserver.Config{
			User: in.Config.Pprof.User,
			Pass: in.Config.Pprof.Pass,
		}, in.Logger)))
	}
	return router.New(in.Handlers, in.Couriers, in.Deliveries, opts...)
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	// WriteTimeout не ставим: websocket-соединения живут долго
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		func(logger logx.Logger, svc *courier.Service, reg *registry.Registry) *handlers.CourierHandler {
			return handlers.NewCourierHandler(logger, svc, reg)
		},
		func(logger logx.Logger, svc *delivery.Service) *handlers.DeliveryHandler {
			return handlers.NewDeliveryHandler(logger, svc)
		},
		func(hub *ws.Hub, reg *registry.Registry, engine *dispatch.Engine, logger logx.Logger) *ws.CourierHandler {
			return ws.NewCourierHandler(hub, reg, engine, logger)
		},
		ws.NewCustomerHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServer,
	)
}
