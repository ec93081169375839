package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/Greenfield-Taster/ChatService/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection settings.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
}

// Module consumes session events and mirrors them into Redis. Redis
// failures are logged and never fail the event.
type Module struct {
	cfg    Config
	client *redis.Client
	mirror *Mirror
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the activity module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Prefix == "" {
		cfg.Prefix = "chat:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &Module{
		cfg:    cfg,
		client: client,
		mirror: NewMirror(client, cfg.Prefix),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the session events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.PresenceChangedV1, m.handlePresenceChanged, m); err != nil {
		return fmt.Errorf("failed to register PresenceChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.MessageSentV1, m.handleMessageSent, m); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.MessagesStatusUpdatedV1, m.handleStatusUpdated, m); err != nil {
		return fmt.Errorf("failed to register MessagesStatusUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.RoomDeletedV1, m.handleRoomDeleted, m); err != nil {
		return fmt.Errorf("failed to register RoomDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", []string{"PresenceChanged", "MessageSent", "MessagesStatusUpdated", "RoomDeleted"})
	return nil
}

func (m *Module) handlePresenceChanged(ctx context.Context, event events.PresenceChangedEvent, _ *mono.Msg) error {
	if err := m.mirror.SetPresence(ctx, event.UserID, event.Connections, event.Timestamp); err != nil {
		m.logger.Warn("Failed to mirror presence", "userID", event.UserID, "error", err)
	}
	return nil
}

func (m *Module) handleMessageSent(ctx context.Context, event events.MessageSentEvent, _ *mono.Msg) error {
	if err := m.mirror.RecordMessage(ctx, event.RoomID, event.Timestamp); err != nil {
		m.logger.Warn("Failed to mirror message", "roomID", event.RoomID, "error", err)
	}
	return nil
}

func (m *Module) handleStatusUpdated(ctx context.Context, event events.MessagesStatusUpdatedEvent, _ *mono.Msg) error {
	if err := m.mirror.RecordStatus(ctx, event.RoomID, event.Status, len(event.MessageIDs), event.Timestamp); err != nil {
		m.logger.Warn("Failed to mirror status update", "roomID", event.RoomID, "error", err)
	}
	return nil
}

func (m *Module) handleRoomDeleted(ctx context.Context, event events.RoomDeletedEvent, _ *mono.Msg) error {
	if err := m.mirror.ForgetRoom(ctx, event.RoomID); err != nil {
		m.logger.Warn("Failed to forget room", "roomID", event.RoomID, "error", err)
	}
	return nil
}

// Start checks the Redis connection. An unreachable Redis is reported but
// does not stop the application.
func (m *Module) Start(ctx context.Context) error {
	if err := m.mirror.Ping(ctx); err != nil {
		m.logger.Warn("Redis not reachable, activity mirror degraded", "addr", m.cfg.RedisAddr, "error", err)
		return nil
	}
	m.logger.Info("Connected to Redis", "addr", m.cfg.RedisAddr, "prefix", m.cfg.Prefix)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	m.logger.Info("Activity module stopped")
	return nil
}

// Health reports whether Redis answers.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.mirror.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "redis unreachable",
			Details: map[string]any{"addr": m.cfg.RedisAddr, "error": err.Error()},
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"addr": m.cfg.RedisAddr},
	}
}

// OnlineUsers returns the mirrored online users.
func (m *Module) OnlineUsers(ctx context.Context) ([]string, error) {
	return m.mirror.OnlineUsers(ctx)
}

// RoomMessageCount returns the mirrored message count of a room.
func (m *Module) RoomMessageCount(ctx context.Context, roomID string) (int64, error) {
	return m.mirror.RoomMessageCount(ctx, roomID)
}

// Mirror returns the underlying mirror.
func (m *Module) Mirror() *Mirror {
	return m.mirror
}
