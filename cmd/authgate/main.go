// Command authgate starts the ERP access-control gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nexerp/authgate/internal/api"
	"github.com/nexerp/authgate/internal/infrastructure/config"
	mongodb "github.com/nexerp/authgate/internal/infrastructure/db/mongo"
	redisdb "github.com/nexerp/authgate/internal/infrastructure/db/redis"
	"github.com/nexerp/authgate/internal/infrastructure/storage"
	"github.com/nexerp/authgate/internal/session"
	"github.com/nexerp/authgate/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	// Session storage: Redis when configured, in-process cache otherwise.
	var (
		backend storage.Store
		rdb     *goredis.Client
	)
	switch cfg.Session.Backend {
	case "redis":
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		backend = storage.NewRedis(rdb, log)
	default:
		backend = storage.NewMemory(cfg.Session.TTL)
	}
	sessions := session.NewStore(backend, cfg.Session.TTL)

	e := api.NewRouter(api.RouterConfig{
		Mongo:     db,
		Redis:     rdb,
		Sessions:  sessions,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Cookie: session.CookieConfig{
			Name:     cfg.Cookie.Name,
			Domain:   cfg.Cookie.Domain,
			SameSite: cfg.Cookie.SameSite,
			Secure:   cfg.Cookie.Secure,
			MaxAge:   cfg.Cookie.MaxAge,
		},
		PublicAuthPrefixes: cfg.Routes.PublicAuthPrefixes,
		ProtectedPrefixes:  cfg.Routes.ProtectedPrefixes,
		LoginPath:          cfg.Routes.LoginPath,
		LandingPath:        cfg.Routes.LandingPath,
		ForbiddenPath:      cfg.Routes.ForbiddenPath,
		Log:                log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("authgate started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("authgate stopped")
}
