package broadcast

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// BroadcastModule owns the fan-out hub.
type BroadcastModule struct {
	hub    *Hub
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*BroadcastModule)(nil)
var _ mono.HealthCheckableModule = (*BroadcastModule)(nil)

// NewModule creates a new BroadcastModule.
func NewModule(queueSize int, logger types.Logger) *BroadcastModule {
	return &BroadcastModule{
		hub:    NewHub(logger, WithQueueSize(queueSize)),
		logger: logger,
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Start is a no-op; client writers start as connections register.
func (m *BroadcastModule) Start(_ context.Context) error {
	m.logger.Info("Broadcast module started", "queueSize", m.hub.queueSize)
	return nil
}

// Stop disconnects every client writer.
func (m *BroadcastModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	m.hub.Close()
	m.logger.Info("Broadcast module stopped", "clients", clientCount)
	return nil
}

// Health returns the health status.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	delivered, dropped := m.hub.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
			"admin_connections": m.hub.GroupSize(AdminsGroup()),
			"delivered":         delivered,
			"dropped":           dropped,
		},
	}
}

// GetHub returns the hub for the session and api modules.
func (m *BroadcastModule) GetHub() *Hub {
	return m.hub
}
