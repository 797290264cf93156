package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/asysc2020/relationship-manager-project/internal/app"
	"github.com/asysc2020/relationship-manager-project/internal/infra/config"
	"github.com/asysc2020/relationship-manager-project/internal/infra/metrics"
)

// Server wires the gin engine, middleware and handlers into the HTTP
// surface of the application.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *logrus.Entry
	startTime  time.Time
}

// Services groups the application services the HTTP layer exposes.
type Services struct {
	Auth     *app.AuthService
	Contacts *app.ContactService
	Schedule *app.ScheduleService
}

func NewServer(cfg *config.AppConfig, services Services, m *metrics.Metrics, logger *logrus.Entry) *Server {
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Requested-With"}
		corsConfig.AllowCredentials = true // the session cookie rides on cross-origin requests
		engine.Use(cors.New(corsConfig))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // 30 days
		HttpOnly: true,
		Secure:   cfg.Environment == "production" || cfg.Environment == "staging",
	})
	engine.Use(sessions.Sessions("rmsession", store))

	server := &Server{
		engine:    engine,
		logger:    logger,
		startTime: time.Now(),
	}
	server.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	server.setupRoutes(cfg, services, m)

	return server
}

func (s *Server) setupRoutes(cfg *config.AppConfig, services Services, m *metrics.Metrics) {
	authHandler := NewAuthHandler(services.Auth, m)
	contactHandler := NewContactHandler(services.Contacts, services.Schedule)
	eventHandler := NewEventHandler(services.Schedule)

	s.engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := s.engine.Group("/api")

	api.GET("/health", s.handleHealth)
	api.POST("/register", authHandler.Register)
	api.POST("/login", LoginRateLimit(cfg.LoginRatePerMin), authHandler.Login)
	api.GET("/lookup", authHandler.Lookup)

	authed := api.Group("")
	authed.Use(RequireUser())
	{
		authed.POST("/logout", authHandler.Logout)
		authed.PUT("/profile/telegram", authHandler.LinkTelegram)

		authed.GET("/contacts", contactHandler.List)
		authed.POST("/contacts", contactHandler.Create)
		authed.GET("/contacts/:id", contactHandler.Get)
		authed.PATCH("/contacts/:id", contactHandler.Update)
		authed.GET("/contacts/:id/recommendations", contactHandler.Recommendations)
		authed.POST("/contacts/:id/methods", contactHandler.FinalizeMethods)

		authed.GET("/events", eventHandler.List)
		authed.DELETE("/events/:id", eventHandler.Delete)
		authed.GET("/calendar.ics", eventHandler.Calendar)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Uptime:    time.Since(s.startTime).String(),
		},
	})
}

// Start serves HTTP and blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop() error {
	s.logger.Info("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down HTTP server: %w", err)
	}
	return nil
}

// Engine exposes the gin engine so tests can drive requests directly.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
