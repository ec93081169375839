package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Greenfield-Taster/ChatService/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module hosts the session manager inside the mono application.
type Module struct {
	manager *Manager
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the session module around store and hub.
func NewModule(store RoomStore, hub Broadcaster, logger types.Logger) *Module {
	return &Module{
		manager: NewManager(store, hub, logger),
		logger:  logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "session"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.manager.SetEventBus(bus)
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageSentV1.ToBase(),
		events.RoomCreatedV1.ToBase(),
		events.RoomDeletedV1.ToBase(),
		events.MessagesStatusUpdatedV1.ToBase(),
		events.PresenceChangedV1.ToBase(),
	}
}

// RegisterServices exposes the read side of the manager to other modules.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceRoomSummaries,
		json.Unmarshal,
		json.Marshal,
		m.roomSummaries,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRoomSummaries, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceHistoryPage,
		json.Unmarshal,
		json.Marshal,
		m.historyPage,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceHistoryPage, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceOnlineUsers,
		json.Unmarshal,
		json.Marshal,
		m.onlineUsers,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceOnlineUsers, err)
	}

	m.logger.Info("Registered services",
		"services", []string{ServiceRoomSummaries, ServiceHistoryPage, ServiceOnlineUsers})
	return nil
}

func (m *Module) roomSummaries(ctx context.Context, req RoomSummariesRequest, _ *mono.Msg) (RoomSummariesResponse, error) {
	rooms, err := m.manager.RoomSummariesFor(ctx, req.ViewerID)
	if err != nil {
		return RoomSummariesResponse{Failure: failureOf(err)}, nil
	}
	return RoomSummariesResponse{Rooms: rooms}, nil
}

func (m *Module) historyPage(ctx context.Context, req HistoryPageRequest, _ *mono.Msg) (HistoryPageResponse, error) {
	page, err := m.manager.HistoryPage(ctx, req.RoomID, req.Page, req.PageSize)
	if err != nil {
		return HistoryPageResponse{Failure: failureOf(err)}, nil
	}
	return HistoryPageResponse{Page: page}, nil
}

func (m *Module) onlineUsers(_ context.Context, _ OnlineUsersRequest, _ *mono.Msg) (OnlineUsersResponse, error) {
	p := m.manager.Presence()
	return OnlineUsersResponse{
		UserIDs:     p.OnlineUsers(),
		Connections: p.Count(),
	}, nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Session module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Session module stopped", "connections", m.manager.Presence().Count())
	return nil
}

// Health reports the live presence counts.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	p := m.manager.Presence()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"online_users": len(p.OnlineUsers()),
			"connections":  p.Count(),
		},
	}
}

// Manager returns the session manager.
func (m *Module) Manager() *Manager {
	return m.manager
}
