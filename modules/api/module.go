package api

import (
	"context"
	"fmt"
	"time"

	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
	"github.com/Greenfield-Taster/ChatService/modules/session"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds the HTTP server settings.
type Config struct {
	Port         string
	AllowOrigins string
	JWTSecret    string
	CallRate     float64
	CallBurst    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Port:         "3000",
		AllowOrigins: "*",
		CallRate:     10,
		CallBurst:    20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// APIModule serves the websocket transport and the REST API.
type APIModule struct {
	app       *fiber.App
	cfg       Config
	manager   *session.Manager
	queries   session.QueryPort
	directory Directory
	hub       *broadcast.Hub
	activity  ActivityPort
	tokens    *TokenVerifier
	validate  *validator.Validate
	logger    types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg Config, logger types.Logger) *APIModule {
	m := &APIModule{
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	if cfg.JWTSecret != "" {
		m.tokens = NewTokenVerifier(cfg.JWTSecret)
	}
	return m
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"session"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "session":
		m.queries = session.NewQueryAdapter(container)
	}
}

// SetManager sets the session manager (called from main.go).
func (m *APIModule) SetManager(manager *session.Manager) {
	m.manager = manager
}

// SetDirectory sets the user and room directory (called from main.go).
func (m *APIModule) SetDirectory(directory Directory) {
	m.directory = directory
}

// SetHub sets the broadcast hub (called from main.go).
func (m *APIModule) SetHub(hub *broadcast.Hub) {
	m.hub = hub
}

// SetActivity enables the activity routes.
func (m *APIModule) SetActivity(activity ActivityPort) {
	m.activity = activity
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if err := m.checkDependencies(); err != nil {
		return err
	}

	m.app = m.newApp()

	go func() {
		if err := m.app.Listen(":" + m.cfg.Port); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started",
		"port", m.cfg.Port,
		"tokenAuth", m.tokens != nil)
	return nil
}

func (m *APIModule) checkDependencies() error {
	switch {
	case m.queries == nil:
		return fmt.Errorf("session query adapter dependency not set")
	case m.manager == nil:
		return fmt.Errorf("session manager dependency not set")
	case m.directory == nil:
		return fmt.Errorf("directory dependency not set")
	case m.hub == nil:
		return fmt.Errorf("broadcast hub dependency not set")
	}
	return nil
}

// newApp builds the fiber application with all routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		ReadTimeout:           m.cfg.ReadTimeout,
		WriteTimeout:          m.cfg.WriteTimeout,
		IdleTimeout:           m.cfg.IdleTimeout,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: m.cfg.AllowOrigins}))
	app.Use(m.loggerMiddleware())

	m.setupRoutes(app)
	return app
}

// Routes lists the registered routes, excluding middleware.
func (m *APIModule) Routes() []fiber.Route {
	return m.newApp().GetRoutes(true)
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	details := map[string]any{"port": m.cfg.Port}
	if m.hub != nil {
		details["connected_clients"] = m.hub.ClientCount()
	}
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: details,
	}
}

// loggerMiddleware returns a Fiber middleware for request logging.
func (m *APIModule) loggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip logging for WebSocket upgrade requests
		if c.Get("Upgrade") == "websocket" {
			return c.Next()
		}
		start := time.Now()
		if err := c.Next(); err != nil {
			// Render the error now so the logged status is the one sent.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		m.logger.Debug("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start))
		return nil
	}
}
