package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/allisson/ticketoffice/internal/config"
	"github.com/allisson/ticketoffice/internal/metrics"
	ticketHTTP "github.com/allisson/ticketoffice/internal/ticket/http"
	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the HTTP server with the full route surface:
// health probes, the ticket administration API and the invitation-guarded
// route with the usage stamp attached.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	ticketHandler *ticketHTTP.TicketHandler,
	useCase ticketUseCase.UseCase,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(RecoveryMiddleware(logger))
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health and readiness endpoints
	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler(db))

	// Ticket administration API
	v1 := router.Group("/v1")
	{
		v1.POST("/tickets", ticketHandler.CreateTicketHandler)
		v1.GET("/tickets/:id", ticketHandler.GetTicketHandler)
	}

	registerGuardedRoute(router, cfg, useCase, logger)

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// registerGuardedRoute mounts the invitation-protected route. The chain order
// matters: session store, per-IP rate limit, guard, stamp, handler.
func registerGuardedRoute(
	router *gin.Engine,
	cfg *config.Config,
	useCase ticketUseCase.UseCase,
	logger *slog.Logger,
) {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	handlers := []gin.HandlerFunc{
		sessions.Sessions(cfg.SessionCookieName, store),
	}
	if cfg.RateLimitAuthEnabled {
		handlers = append(handlers, ticketHTTP.CredentialRateLimitMiddleware(
			cfg.RateLimitAuthRequestsPerSec,
			cfg.RateLimitAuthBurst,
			logger,
		))
	}
	handlers = append(handlers,
		ticketHTTP.InvitationRequired(
			useCase,
			cfg.GuardedRoutePlace,
			cfg.GuardedRoutePurpose,
			ticketHTTP.GuardConfig{},
			logger,
		),
		ticketHTTP.StampInvitation(useCase, logger),
		guardedWelcomeHandler,
	)

	router.GET(cfg.GuardedRoutePath, handlers...)
}

// guardedWelcomeHandler greets the guest behind the invitation guard.
// Reaching it consumes the invitation via the stamp middleware.
func guardedWelcomeHandler(c *gin.Context) {
	guest, ok := ticketHTTP.GetGuest(c.Request.Context())
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	response := gin.H{"message": "welcome"}
	if guest.User != nil {
		response["user"] = guest.User
	}
	c.JSON(http.StatusOK, response)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
