package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/cardbox/core/internal/adapters/http"
	"github.com/cardbox/core/internal/adapters/metadata"
	"github.com/cardbox/core/internal/adapters/repository"
	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/crypto"
	"github.com/cardbox/core/internal/infrastructure/config"
	"github.com/cardbox/core/internal/infrastructure/database"
	"github.com/cardbox/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true

	// Payload sealer; nil means plaintext storage (warned in CardService)
	var sealer *crypto.Sealer
	if cfg.Vault.EncryptionKey != "" {
		var err error
		sealer, err = crypto.NewSealer([]byte(cfg.Vault.EncryptionKey))
		if err != nil {
			return nil, fmt.Errorf("invalid vault encryption key: %w", err)
		}
	}

	// Initialize repositories
	cardRepo := repository.NewCardRepository(db)
	settingsRepo := repository.NewSettingsRepository(db.DB)

	// Initialize services with component-tagged loggers
	cardService := services.NewCardService(cardRepo, sealer, appLogger.WithComponent("cards"))
	draftService := services.NewDraftService(cardService, appLogger.WithComponent("drafts"))
	folderService := services.NewFolderService(cardRepo, appLogger.WithComponent("folders"))
	vaultService := services.NewVaultService(settingsRepo, cfg.Vault, appLogger.WithComponent("vault"))
	settingsService := services.NewSettingsService(settingsRepo, appLogger.WithComponent("settings"))
	movieClient := metadata.NewMovieClient(cfg.Metadata)

	// Initialize handlers
	cardHandler := httpHandlers.NewCardHandler(cardService, draftService, appLogger)
	folderHandler := httpHandlers.NewFolderHandler(folderService, appLogger)
	vaultHandler := httpHandlers.NewVaultHandler(vaultService, appLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(settingsService, appLogger)
	metadataHandler := httpHandlers.NewMetadataHandler(movieClient, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	server.setupMiddleware()
	server.setupRoutes(cardHandler, folderHandler, vaultHandler, settingsHandler, metadataHandler, vaultService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(cardHandler *httpHandlers.CardHandler, folderHandler *httpHandlers.FolderHandler, vaultHandler *httpHandlers.VaultHandler, settingsHandler *httpHandlers.SettingsHandler, metadataHandler *httpHandlers.MetadataHandler, vaultService *services.VaultService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// The vault middleware is optional everywhere: it marks requests that
	// carry a valid unlock token, and Password content stays redacted on
	// the rest.
	v1.Use(s.vaultMiddleware(vaultService))

	// Card routes
	cardGroup := v1.Group("/cards")
	cardGroup.GET("", cardHandler.ListCards)
	cardGroup.POST("", cardHandler.CreateCard)
	cardGroup.GET("/:id", cardHandler.GetCard)
	cardGroup.PATCH("/:id", cardHandler.UpdateCard)
	cardGroup.DELETE("/:id", cardHandler.DeleteCard)
	cardGroup.GET("/:id/preview", cardHandler.GetPreview)
	cardGroup.POST("/:id/edit", cardHandler.BeginEdit)
	cardGroup.PUT("/:id/edit", cardHandler.SaveDraft)
	cardGroup.DELETE("/:id/edit", cardHandler.CancelEdit)

	// Folder navigation routes
	folderGroup := v1.Group("/folders")
	folderGroup.GET("/tree", folderHandler.GetTree)
	folderGroup.GET("/:id/path", folderHandler.GetPath)

	// Vault gate routes
	vaultGroup := v1.Group("/vault")
	vaultGroup.GET("/status", vaultHandler.Status)
	vaultGroup.POST("/unlock", vaultHandler.Unlock)
	vaultGroup.PUT("/pin", vaultHandler.SetPIN)

	// Settings routes
	v1.GET("/settings", settingsHandler.GetSettings)
	v1.PUT("/settings", settingsHandler.UpdateSettings)

	// Metadata lookup for Collection cards
	v1.GET("/metadata/search", metadataHandler.Search)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// vaultMiddleware marks requests carrying a valid vault unlock token. It
// never rejects: a missing or invalid token just leaves the vault locked for
// this request.
func (s *Server) vaultMiddleware(vaultService *services.VaultService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return next(c)
			}

			unlocked, err := vaultService.ValidateToken(parts[1])
			if err != nil {
				s.logger.Warn("Invalid vault token", "error", err, "ip", c.RealIP())
				return next(c)
			}

			c.Set(httpHandlers.VaultUnlockedKey, unlocked)
			return next(c)
		}
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.HealthCheck(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Info("Starting HTTP server", "addr", addr)

	return s.echo.Start(addr)
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
