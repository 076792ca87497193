package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/nexerp/authgate/docs"
	"github.com/nexerp/authgate/internal/api/handler"
	"github.com/nexerp/authgate/internal/api/middleware"
	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/core/service"
	mongodb "github.com/nexerp/authgate/internal/infrastructure/db/mongo"
	"github.com/nexerp/authgate/internal/session"
)

// RouterConfig carries everything the router needs wired in.
type RouterConfig struct {
	Mongo     *mongo.Database
	Redis     *redis.Client // nil when the in-process session store is used
	Sessions  *session.Store
	JWTSecret string
	TokenTTL  time.Duration
	Cookie    session.CookieConfig

	PublicAuthPrefixes []string
	ProtectedPrefixes  []string
	LoginPath          string
	LandingPath        string
	ForbiddenPath      string

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("authgate"))

	// The edge-layer guard runs on every request, before any handler.
	classifier := middleware.NewClassifier(cfg.PublicAuthPrefixes, cfg.ProtectedPrefixes)
	e.Use(middleware.RouteGuard(middleware.RouteGuardConfig{
		Classifier:  classifier,
		Cookie:      cfg.Cookie,
		LoginPath:   cfg.LoginPath,
		LandingPath: cfg.LandingPath,
	}))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(cfg.Mongo)
	authService := service.NewAuthService(userRepo, cfg.Sessions, cfg.JWTSecret, cfg.TokenTTL, cfg.Log)
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	pageHandler := handler.NewPageHandler()
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	guard := middleware.NewGuard(middleware.GuardConfig{
		Sessions:      cfg.Sessions,
		Cookie:        cfg.Cookie,
		LoginPath:     cfg.LoginPath,
		ForbiddenPath: cfg.ForbiddenPath,
		Log:           cfg.Log,
	})

	// --- Auth flow ---
	e.GET("/auth/login", pageHandler.LoginPage)
	e.GET("/auth/register", pageHandler.RegisterPage)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)

	// --- JSON API (signature-verified bearer tokens) ---
	e.GET("/auth/session", authHandler.Session, authMiddleware)
	e.PATCH("/auth/profile", authHandler.UpdateProfile, authMiddleware)

	// --- Protected pages (render-layer guard) ---
	e.GET("/forbidden", pageHandler.Forbidden)
	dash := e.Group("/dashboard")
	dash.GET("", pageHandler.Dashboard, guard.RequireAuth())
	dash.GET("/hr", pageHandler.Dashboard,
		guard.RequireAny(domain.RoleManager, domain.RoleDepartmentHead))
	dash.GET("/payroll", pageHandler.Dashboard,
		guard.RequireAny(domain.RoleAccountant, domain.RoleManager))
	dash.GET("/content", pageHandler.Dashboard,
		guard.RequireAll(domain.RoleEmployee, domain.RoleContentAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
