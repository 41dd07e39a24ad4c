package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/observability"
	"courier-dispatch/internal/transport/kafka"
	"courier-dispatch/internal/transport/ws"
)

const shutdownTimeout = 15 * time.Second

// MustRun starts the service using the provided DI container and blocks until ctx is done.
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type runtimeIn struct {
	dig.In

	Ctx      context.Context
	Config   *config.Config
	Logger   logx.Logger
	Server   *http.Server
	Engine   *dispatch.Engine
	Hub      *ws.Hub
	Consumer *kafka.Consumer
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	NATS     *nats.Conn
	Tracer   observability.ShutdownFunc
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runtimeIn) error {
		return serve(in)
	})
}

func serve(in runtimeIn) error {
	runCtx, cancel := context.WithCancel(in.Ctx)
	defer cancel()

	var wg sync.WaitGroup
	serverErr := startServer(in.Server, in.Logger)
	startBackground(runCtx, &wg, in)

	var runErr error
	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down courier-dispatch")
	case err := <-serverErr:
		runErr = fmt.Errorf("listen: %w", err)
		in.Logger.Error("http server stopped", logx.Err(err))
	}

	cancel()
	gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
	// hijacked websocket-соединения Shutdown не закрывает
	in.Hub.Close()
	in.Engine.Close()
	wg.Wait()
	closeResources(in)
	return runErr
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("courier-dispatch listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func startBackground(ctx context.Context, wg *sync.WaitGroup, in runtimeIn) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = in.Engine.RunJanitor(ctx, in.Config.Dispatch.JanitorInterval)
	}()

	if in.Consumer == nil {
		in.Logger.Info("kafka intake disabled")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		in.Logger.Info("kafka intake started", logx.String("topic", in.Config.Kafka.Topic))
		if err := in.Consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			in.Logger.Error("kafka intake stopped", logx.Err(err))
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in runtimeIn) {
	if err := in.Consumer.Close(); err != nil {
		in.Logger.Warn("kafka close error", logx.Err(err))
	}
	if in.NATS != nil {
		if err := in.NATS.Drain(); err != nil {
			in.Logger.Warn("nats drain error", logx.Err(err))
		}
	}
	if in.Redis != nil {
		if err := in.Redis.Close(); err != nil {
			in.Logger.Warn("redis close error", logx.Err(err))
		}
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
	if in.Tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := in.Tracer(ctx); err != nil {
			in.Logger.Warn("tracer shutdown error", logx.Err(err))
		}
	}
	_ = in.Logger.Sync()
}
