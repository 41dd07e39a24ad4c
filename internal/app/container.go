package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/gateway/profiles"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	"courier-dispatch/internal/notify"
	"courier-dispatch/internal/observability"
	"courier-dispatch/internal/registry"
	"courier-dispatch/internal/repository"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/delivery"
	"courier-dispatch/internal/service/intake"
	"courier-dispatch/internal/transport/kafka"
	"courier-dispatch/internal/transport/ws"
)

const serviceName = "courier-dispatch"

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  dbConnectFunc
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfigLoader replaces config.Load.
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerInfra(container); err != nil {
		return nil, fmt.Errorf("infra: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
		func(ctx context.Context, cfg *config.Config) (observability.ShutdownFunc, error) {
			return observability.SetupTracer(ctx, observability.TracerConfig{
				Service: serviceName,
				Enabled: cfg.Tracing.Enabled,
			})
		},
		prometheus.NewRegistry,
		newMetrics,
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, logger logx.Logger, cfg *config.Config) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}
	return provideAll(container, providerDB)
}

// registerInfra provides optional clients; a disabled client is provided as nil.
func registerInfra(container *dig.Container) error {
	return provideAll(container,
		newRedisClient,
		newNATSConn,
		newKafkaConsumer,
	)
}

func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func newNATSConn(cfg *config.Config, logger logx.Logger) (*nats.Conn, error) {
	if cfg.NATS.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name(serviceName),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", logx.Err(err))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

func newKafkaConsumer(cfg *config.Config, logger logx.Logger, p *intake.Processor) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, p.Handle)
}

type metricsOut struct {
	dig.Out

	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	ProfileRetries    prometheus.Counter `name:"profile_lookup_retries_total"`
	Dispatch          *metrics.DispatchRecorder
}

func newMetrics(reg *prometheus.Registry) (metricsOut, error) {
	out := metricsOut{
		RateLimitExceeded: metrics.NewRateLimitExceededTotal(),
		ProfileRetries:    metrics.NewProfileLookupRetriesTotal(),
		Dispatch:          metrics.NewDispatchRecorder(),
	}
	collectors := append([]prometheus.Collector{out.RateLimitExceeded, out.ProfileRetries}, out.Dispatch.Collectors()...)
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return metricsOut{}, fmt.Errorf("register collector: %w", err)
		}
	}
	return out, nil
}

type profileFinderIn struct {
	dig.In

	Courier *courier.Service
	Logger  logx.Logger
	Config  *config.Config
	Retries prometheus.Counter `name:"profile_lookup_retries_total"`
}

func newProfileFinder(in profileFinderIn) *profiles.RetryingFinder {
	pl := in.Config.ProfileLookup
	return profiles.NewRetryingFinder(in.Courier, in.Logger, in.Retries, profiles.RetryConfig{
		MaxAttempts: pl.MaxAttempts,
		BaseDelay:   pl.BaseDelay,
		MaxDelay:    pl.MaxDelay,
	})
}

func newNotifyGateway(cfg *config.Config, hub *ws.Hub, nc *nats.Conn, logger logx.Logger) *notify.Gateway {
	// без шины статусы уходят только в сокеты
	if nc == nil {
		return notify.NewGateway(hub, nil, logger)
	}
	return notify.NewGateway(hub, notify.NewNATSPublisher(nc, cfg.NATS.StatusSubject), logger)
}

type engineIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Selector *dispatch.Selector
	Store    *repository.DeliveryRepo
	Notifier *notify.Gateway
	Presence *registry.Registry
	Recorder *metrics.DispatchRecorder
	Redis    *redis.Client
}

func newEngine(in engineIn) *dispatch.Engine {
	dc := in.Config.Dispatch
	opts := []dispatch.Option{
		dispatch.WithPresence(in.Presence),
		dispatch.WithRecorder(in.Recorder),
	}
	if in.Redis != nil {
		opts = append(opts, dispatch.WithJournal(repository.NewRedisJournal(in.Redis, in.Config.Redis.JournalTTL)))
	}
	return dispatch.NewEngine(in.Selector, in.Store, in.Notifier, in.Logger, dispatch.Config{
		OfferTimeout:     dc.OfferTimeout,
		Retention:        dc.SessionRetention,
		OperationTimeout: dc.OperationTimeout,
		Capability:       dc.Capability,
	}, opts...)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewCourierRepo,
		repository.NewDeliveryRepo,
		registry.New,
		ws.NewHub,
		func(repo *repository.CourierRepo, cfg *config.Config) *courier.Service {
			return courier.NewService(repo, cfg.Dispatch.OperationTimeout)
		},
		newProfileFinder,
		func(reg *registry.Registry, finder *profiles.RetryingFinder, logger logx.Logger, cfg *config.Config) *dispatch.Selector {
			return dispatch.NewSelector(reg, finder, logger, cfg.Dispatch.MaxCandidates)
		},
		newNotifyGateway,
		newEngine,
		func(repo *repository.DeliveryRepo, engine *dispatch.Engine, cfg *config.Config) *delivery.Service {
			return delivery.NewService(repo, engine, cfg.Dispatch.DefaultRadiusKm, cfg.Dispatch.OperationTimeout)
		},
		func(svc *delivery.Service, logger logx.Logger) *intake.Processor {
			return intake.NewProcessor(svc, logger)
		},
	)
}
