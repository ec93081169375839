package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Greenfield-Taster/ChatService/config"
	"github.com/Greenfield-Taster/ChatService/modules/activity"
	"github.com/Greenfield-Taster/ChatService/modules/api"
	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
	"github.com/Greenfield-Taster/ChatService/modules/session"
	"github.com/Greenfield-Taster/ChatService/modules/store"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat server",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	log.Println("=== Support Chat Service ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel(cfg.Log.Level)),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	logger := app.Logger()

	// The store is opened ahead of Start so the session module can be built
	// against it.
	storeModule := store.NewModule(cfg.DB.Path, cfg.DB.Debug, logger)
	st, err := storeModule.Open()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	broadcastModule := broadcast.NewModule(cfg.Broadcast.QueueSize, logger)
	sessionModule := session.NewModule(st, broadcastModule.GetHub(), logger)

	apiModule := api.NewModule(api.Config{
		Port:         strconv.Itoa(cfg.HTTP.Port),
		AllowOrigins: cfg.HTTP.AllowOrigins,
		JWTSecret:    cfg.Auth.JWTSecret,
		CallRate:     cfg.Rate.CallsPerSecond,
		CallBurst:    cfg.Rate.Burst,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, logger)
	apiModule.SetManager(sessionModule.Manager())
	apiModule.SetDirectory(st)
	apiModule.SetHub(broadcastModule.GetHub())

	// Order: independent modules first, then modules with dependencies
	// - store: SQLite persistence
	// - broadcast: connection groups and writers
	// - session: realtime operations, events and read services
	// - activity: optional Redis mirror consuming session events
	// - api: Fiber HTTP/WebSocket server, depends on session
	app.Register(storeModule)
	app.Register(broadcastModule)
	app.Register(sessionModule)
	if cfg.RedisEnabled() {
		activityModule := activity.NewModule(activity.Config{
			RedisAddr:     cfg.Redis.Addr,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
			Prefix:        cfg.Redis.Prefix,
		}, logger)
		apiModule.SetActivity(activityModule)
		app.Register(activityModule)
	}
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
	return nil
}

// logLevel maps a configured level name onto the mono logger level.
func logLevel(name string) mono.LogLevel {
	switch name {
	case "debug":
		return mono.LogLevelDebug
	case "warn":
		return mono.LogLevelWarn
	case "error":
		return mono.LogLevelError
	default:
		return mono.LogLevelInfo
	}
}

type endpoint struct {
	Method      string
	Path        string
	Description string
}

var bannerEndpoints = []endpoint{
	{"GET", "/health", "Health check"},
	{"GET", "/api/v1/users", "List users"},
	{"GET", "/api/v1/rooms", "List rooms"},
	{"POST", "/api/v1/rooms", "Create a room for a user"},
	{"GET", "/api/v1/rooms/:id/messages/paged", "Paged history"},
	{"PUT", "/api/v1/rooms/:id/messages/status", "Bulk status update"},
	{"PUT", "/api/v1/messages/:id/status", "Single message status update"},
}

func printStartupInfo(cfg *config.Config) {
	port := cfg.HTTP.Port

	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  - Database: %s", cfg.DB.Path)
	if cfg.RedisEnabled() {
		log.Printf("  - Activity mirror: redis %s", cfg.Redis.Addr)
	}
	if cfg.AuthEnabled() {
		log.Println("  - WebSocket tokens: required")
	}
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	for _, e := range bannerEndpoints {
		log.Printf("  %-6s %-36s - %s", e.Method, e.Path, e.Description)
	}
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%d/ws):", port)
	log.Println(`  Frames: {"call":"ConnectUser","args":["<userId>"]}`)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
