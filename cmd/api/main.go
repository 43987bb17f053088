package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/campusdeals/marketplace-api/docs" // swagger docs
	"github.com/campusdeals/marketplace-api/internal/api"
	"github.com/campusdeals/marketplace-api/internal/api/handler"
	"github.com/campusdeals/marketplace-api/internal/api/metrics"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
	"github.com/campusdeals/marketplace-api/internal/core/service"
	mongodb "github.com/campusdeals/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/campusdeals/marketplace-api/internal/infrastructure/db/redis"
	sqldb "github.com/campusdeals/marketplace-api/internal/infrastructure/db/sql"
	"github.com/campusdeals/marketplace-api/internal/infrastructure/queue"
	"github.com/campusdeals/marketplace-api/internal/pkg/config"
	"github.com/campusdeals/marketplace-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Campus Marketplace API
// @version                     1.0
// @description                 Student marketplace API with JWT authentication and role-gated buy/sell transactions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})

	// --- Relational store ---
	db, err := sqldb.Connect(ctx, sqldb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer sqldb.Close(db)

	if err := sqldb.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	checks := []handler.DependencyCheck{
		{Name: "sql", Ping: func(ctx context.Context) error { return sqldb.Ping(ctx, db) }},
	}

	// --- Audit trail (optional) ---
	var (
		audit      ports.AuditSink = service.NopAuditSink{}
		dispatcher *queue.Dispatcher
		mongoCli   *mongo.Client
	)
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "marketplace-api",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		mongoCli = client

		auditRepo := mongodb.NewAuditRepository(mdb)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure audit indexes")
		}

		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, log), log,
			queue.WithDropHook(metrics.AuditEventsDroppedTotal.Inc),
		)
		dispatcher.Start(context.WithoutCancel(ctx))
		audit = dispatcher

		checks = append(checks, handler.DependencyCheck{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return mongodb.Ping(ctx, client) },
		})
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	// --- Login throttling (optional) ---
	var limiter ports.LoginLimiter
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		limiter = redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)

		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info().Int("max_attempts", cfg.Auth.LoginMaxAttempts).Dur("window", cfg.Auth.LoginWindow).Msg("login throttling enabled")
	}

	// --- Core ---
	users := sqldb.NewUserRepository(db)
	products := sqldb.NewProductRepository(db)
	carts := sqldb.NewCartRepository(db)
	orders := sqldb.NewOrderRepository(db)

	creds := service.NewCredentialService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, service.WithBcryptCost(cfg.Auth.BcryptCost))
	gate := service.NewGate(creds)
	guard := service.NewGuard(gate, users, cfg.Auth.DirectoryTimeout)

	authSvc := service.NewAuthService(users, creds, limiter, audit, log)

	if cfg.Admin.Email != "" {
		if err := authSvc.BootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin account")
		}
	}

	deps := api.Dependencies{
		Log:         log,
		Development: cfg.IsDevelopment(),
		CORSOrigins: cfg.CORSOrigins,
		Gate:        gate,
		Guard:       guard,
		Audit:       audit,
		Auth:        authSvc,
		Users:       service.NewUserService(users, log),
		Products:    service.NewProductService(products, log),
		Carts:       service.NewCartService(carts, products, log),
		Orders:      service.NewOrderService(orders, products, log),
		Checks:      checks,
	}
	if dispatcher != nil {
		deps.QueueDepth = dispatcher.Depth
	}
	e := api.NewRouter(deps)

	// --- Serve ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if dispatcher != nil {
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("audit dispatcher did not drain")
		}
	}
	if mongoCli != nil {
		_ = mongoCli.Disconnect(shutdownCtx)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server stopped")
}
