package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keepnotes/config"
	"keepnotes/handler"
	"keepnotes/repository"
	"keepnotes/services"
	"keepnotes/usecase"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// app holds the wired dependencies plus whatever must be closed on exit.
type app struct {
	cfg     config.AppConfig
	logger  *zap.Logger
	router  *gin.Engine
	closers []func(context.Context) error
}

func loadConfig() (config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return cfg, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

func newApp(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	var (
		users repository.UserStore
		notes repository.NoteStore
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		users = repository.NewMemoryUserRepo()
		notes = repository.NewMemoryNotesRepo()
	default:
		client, err := repository.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)

		db := client.Database(cfg.Database.DatabaseName)
		if err := repository.SetupIndexes(ctx, db); err != nil {
			a.close()
			return nil, fmt.Errorf("setup indexes: %w", err)
		}
		users = repository.GetUserRepo(db)
		notes = repository.GetNotesRepo(db)
		logger.Info("connected to MongoDB", zap.String("database", cfg.Database.DatabaseName))
	}

	var limiter services.LoginLimiter = services.NoopLoginLimiter{}
	if cfg.RedisURL != "" {
		redisLimiter, err := services.NewRedisLoginLimiter(cfg.RedisURL, cfg.LoginRateLimit, cfg.LoginRateWindow)
		if err != nil {
			// Login throttling is optional; the API stays up without it.
			logger.Warn("login rate limiting disabled", zap.Error(err))
		} else {
			limiter = redisLimiter
			a.closers = append(a.closers, func(context.Context) error { return redisLimiter.Close() })
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		a.close()
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	userService := usecase.NewUserService(
		users,
		services.NewPasswordHasher(cfg.BcryptCost),
		services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration),
		services.NewAvatarStore(cfg.UploadDir, cfg.MaxAvatarBytes),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	a.router = handler.NewRouter(handler.RouterConfig{
		Logger:         logger,
		Users:          userService,
		Notes:          usecase.NewNotesService(notes),
		LoginLimiter:   limiter,
		Environment:    cfg.Environment,
		Development:    cfg.IsDevelopment(),
		StoreDriver:    cfg.StoreDriver,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		UploadDir:      cfg.UploadDir,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})
	return a, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *app) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", a.cfg.Environment),
			zap.String("store", a.cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server shutdown complete")
	return nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.close()

	return a.run(ctx)
}

func migrate(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.StoreDriver != config.StoreMongo {
		return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %q", config.StoreMongo, cfg.StoreDriver)
	}

	client, err := repository.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func(c *mongo.Client) { _ = c.Disconnect(context.Background()) }(client)

	if err := repository.SetupIndexes(ctx, client.Database(cfg.Database.DatabaseName)); err != nil {
		return fmt.Errorf("setup indexes: %w", err)
	}
	logger.Info("indexes created", zap.String("database", cfg.Database.DatabaseName))
	return nil
}
