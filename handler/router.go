package handler

import (
	"keepnotes/middleware"
	"keepnotes/services"
	"keepnotes/usecase"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const uploadsMaxAge = "86400"

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Logger       *zap.Logger
	Users        *usecase.UserService
	Notes        *usecase.NotesService
	LoginLimiter services.LoginLimiter

	Environment string
	// Development allows every CORS origin.
	Development bool
	StoreDriver string
	CORSOrigins []string
	// Nil trusts no proxy; the login limiter then keys on the peer address.
	TrustedProxies []string
	// Empty disables the /uploads file server.
	UploadDir    string
	MaxBodyBytes int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := cfg.LoginLimiter
	if limiter == nil {
		limiter = services.NoopLoginLimiter{}
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		middleware.RequestTracingMiddleware(),
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(cfg.CORSOrigins, cfg.Development),
	)
	if cfg.MaxBodyBytes > 0 {
		router.Use(middleware.RequestSizeLimiter(cfg.MaxBodyBytes))
	}

	authHandler := NewAuthHandler(cfg.Users, logger)
	notesHandler := NewNotesHandler(cfg.Notes, logger)
	healthHandler := &HealthHandler{Environment: cfg.Environment, StoreDriver: cfg.StoreDriver, Logger: logger}
	requireAuth := middleware.AuthMiddleware(cfg.Users, logger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.UploadDir != "" {
		uploads := router.Group("/uploads", middleware.CacheControlMiddleware(uploadsMaxAge))
		uploads.Static("/", cfg.UploadDir)
	}

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(limiter, logger), authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/avatar", requireAuth, authHandler.UploadAvatar)
		}

		notes := api.Group("/notes", requireAuth)
		{
			notes.GET("", notesHandler.ListNotes)
			notes.POST("", notesHandler.CreateNote)
			notes.GET("/:id", notesHandler.GetNote)
			notes.PUT("/:id", notesHandler.UpdateNote)
			notes.DELETE("/:id", notesHandler.DeleteNote)
			notes.PATCH("/:id/pin", notesHandler.TogglePin)
			notes.PATCH("/:id/favorite", notesHandler.ToggleFavorite)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})

	return router
}
