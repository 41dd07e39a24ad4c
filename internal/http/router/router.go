package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courier-dispatch/internal/http/handlers"
	obs "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
)

const defaultRequestTimeout = 5 * time.Second

type options struct {
	logger     logx.Logger
	courierWS  http.Handler
	customerWS http.Handler
	rateLimit  func(http.Handler) http.Handler
	metrics    http.Handler
	pprof      http.Handler
	timeout    time.Duration
}

// Option configures optional routes and middleware.
type Option func(*options)

// WithLogger enables request observability logging.
func WithLogger(l logx.Logger) Option { return func(o *options) { o.logger = l } }

// WithWebsockets mounts the courier and customer socket endpoints.
func WithWebsockets(courier, customer http.Handler) Option {
	return func(o *options) { o.courierWS, o.customerWS = courier, customer }
}

// WithRateLimit guards courier event endpoints.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(o *options) { o.rateLimit = mw }
}

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option { return func(o *options) { o.metrics = h } }

// WithPprof mounts profiling routes at /debug/pprof.
func WithPprof(h http.Handler) Option { return func(o *options) { o.pprof = h } }

// WithTimeout overrides the per-request timeout of REST routes.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// New constructs a chi-based http.Handler with base middleware and routes.
func New(h *handlers.Handlers, cour *handlers.CourierHandler, del *handlers.DeliveryHandler, opts ...Option) http.Handler {
	o := options{timeout: defaultRequestTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	limited := o.rateLimit
	if limited == nil {
		limited = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(o.logger))
	r.Use(middleware.Recoverer)

	// сокеты живут дольше таймаута запроса
	if o.courierWS != nil {
		r.With(limited).Method(http.MethodGet, "/ws/couriers/{id}", o.courierWS)
	}
	if o.customerWS != nil {
		r.Method(http.MethodGet, "/ws/customers/{id}", o.customerWS)
	}
	if o.pprof != nil {
		r.Mount("/debug/pprof", o.pprof)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(o.timeout))

		r.Get("/ping", h.Ping)
		r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
		if o.metrics != nil {
			r.Method(http.MethodGet, "/metrics", o.metrics)
		}

		if cour != nil {
			r.Route("/couriers", func(r chi.Router) {
				r.Get("/", cour.List)
				r.Post("/", cour.Create)
				r.Get("/online", cour.Online)
				r.Get("/{id}", cour.GetByID)
				r.Patch("/{id}/status", cour.UpdateStatus)
			})
		}

		if del != nil {
			r.Route("/deliveries", func(r chi.Router) {
				r.Post("/", del.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", del.Get)
					r.Get("/session", del.Session)
					r.Post("/dispatch", del.Dispatch)
					r.Post("/cancel", del.Cancel)
					r.With(limited).Post("/accept", del.Accept)
					r.With(limited).Post("/reject", del.Reject)
				})
			})
		}
	})

	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
