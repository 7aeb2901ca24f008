// Package app is the shared bootstrap of the five binaries: configuration,
// logging, store connections and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/venuehub/platform/internal/api"
	"github.com/venuehub/platform/internal/api/handler"
	"github.com/venuehub/platform/internal/api/middleware"
	"github.com/venuehub/platform/internal/core/ports"
	"github.com/venuehub/platform/internal/core/service"
	"github.com/venuehub/platform/internal/infrastructure/config"
	"github.com/venuehub/platform/internal/infrastructure/db/memory"
	"github.com/venuehub/platform/internal/infrastructure/db/mongo"
	"github.com/venuehub/platform/internal/infrastructure/db/redis"
	"github.com/venuehub/platform/internal/infrastructure/remote"
	"github.com/venuehub/platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Builder assembles the router of one binary.
type Builder func(ctx context.Context, rt *Runtime) (*echo.Echo, error)

// Runtime holds what a binary shares across its components.
type Runtime struct {
	Service string
	Config  *config.Config
	Log     zerolog.Logger

	mongoClient *mongodriver.Client
	db          *mongodriver.Database
	redis       *goredis.Client
}

// NewRuntime initialises the logger and opens the stores selected by cfg.
func NewRuntime(ctx context.Context, serviceName string, cfg *config.Config) (*Runtime, error) {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	rt := &Runtime{Service: serviceName, Config: cfg, Log: log}

	if cfg.StoreDriver == config.DriverMongo && serviceName != "gateway" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		rt.mongoClient, rt.db = client, db
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	}

	if cfg.TokenStore == config.DriverRedis {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: cfg.Redis.Timeout})
		if err != nil {
			rt.Close(ctx)
			return nil, err
		}
		rt.redis = client
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	return rt, nil
}

// Close releases the store connections.
func (rt *Runtime) Close(ctx context.Context) {
	if rt.mongoClient != nil {
		if err := rt.mongoClient.Disconnect(ctx); err != nil {
			rt.Log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			rt.Log.Warn().Err(err).Msg("redis close failed")
		}
	}
}

// UsesMongo reports whether repositories are backed by MongoDB.
func (rt *Runtime) UsesMongo() bool { return rt.db != nil }

// Ready lists the dependencies the readiness probe checks.
func (rt *Runtime) Ready() map[string]handler.Pinger {
	deps := make(map[string]handler.Pinger)
	if rt.db != nil {
		deps["mongodb"] = handler.MongoPinger(rt.db)
	}
	if rt.redis != nil {
		deps["redis"] = handler.RedisPinger(rt.redis)
	}
	return deps
}

// Options returns the router options of this binary. With INTERIOR_TRUST
// set to bearer, interior services verify the forwarded token themselves.
func (rt *Runtime) Options() (api.Options, error) {
	opts := api.Options{Service: rt.Service, Log: rt.Log, Ready: rt.Ready()}
	if rt.Config.Gateway.Trust == config.TrustBearer && rt.Service != "gateway" {
		tokens, err := rt.TokenService()
		if err != nil {
			return api.Options{}, err
		}
		opts.Resolver = middleware.BearerTrust{Verifier: tokens}
	}
	return opts, nil
}

// TokenStore returns the active-token set: shared in Redis or local to the
// process.
func (rt *Runtime) TokenStore() ports.TokenStore {
	if rt.redis != nil {
		return redis.NewTokenStore(rt.redis, rt.Log)
	}
	return memory.NewTokenStore()
}

// TokenService builds the Identity Token Service over TokenStore.
func (rt *Runtime) TokenService() (*service.TokenService, error) {
	if rt.Config.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return service.NewTokenService(rt.Config.JWTSecret, rt.Config.TokenTTL, rt.TokenStore(), rt.Log), nil
}

// Remote returns a client for the peer named target.
func (rt *Runtime) Remote(target, baseURL string) *remote.Client {
	return remote.NewClient(target, baseURL, rt.Config.Remote.Timeout, rt.Log.With().Str("peer", target).Logger())
}

// Serve runs e on the configured port until ctx is cancelled, then shuts it
// down gracefully.
func (rt *Runtime) Serve(ctx context.Context, e *echo.Echo) error {
	e.Server.ReadHeaderTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	addr := ":" + rt.Config.Port
	errCh := make(chan error, 1)
	go func() {
		rt.Log.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.Log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// Run is the body of every main: load configuration, build the router and
// serve until SIGINT or SIGTERM.
func Run(serviceName string, build Builder) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	rt, err := NewRuntime(ctx, serviceName, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer rt.Close(context.Background())

	e, err := build(ctx, rt)
	if err != nil {
		rt.Log.Fatal().Err(err).Msg("bootstrap failed")
	}
	if err := rt.Serve(ctx, e); err != nil {
		rt.Log.Fatal().Err(err).Msg("server stopped with error")
	}
	rt.Log.Info().Msg("stopped")
}
