package api

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/modules/session"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// subjectKey holds the verified token subject in the request locals.
const subjectKey = "subject"

// upgradeGuard rejects non-websocket requests to /ws and, when token auth is
// enabled, requests without a valid ?token=.
func (m *APIModule) upgradeGuard(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if m.tokens != nil {
		subject, err := m.tokens.Verify(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   domain.CodeUnauthenticated,
				Message: "Invalid or missing token",
			})
		}
		c.Locals(subjectKey, subject)
	}
	return c.Next()
}

func (m *APIModule) websocketHandler() fiber.Handler {
	return websocket.New(m.handleWebSocket)
}

// handleWebSocket runs one client connection: frames are decoded into calls
// and handed to the session manager until the connection drops.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	ctx := context.Background()

	if subject, ok := c.Locals(subjectKey).(string); ok && subject != "" {
		m.manager.Presence().Bind(connID, subject)
	}
	m.hub.Register(connID, c)
	// Disconnect returns only after the hub writer has exited; c is released
	// to the pool once this handler returns.
	defer func() {
		m.manager.Disconnect(ctx, connID)
		m.logger.Debug("WebSocket client disconnected", "connID", connID)
	}()

	m.logger.Debug("WebSocket client connected", "connID", connID)

	limiter := rate.NewLimiter(rate.Limit(m.cfg.CallRate), max(m.cfg.CallBurst, 1))
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("WebSocket read error", "connID", connID, "error", err)
			}
			return
		}
		m.handleFrame(ctx, connID, data, limiter)
	}
}

// handleFrame decodes and dispatches one client frame. Failures are reported
// to the caller as Error events by the session manager.
func (m *APIModule) handleFrame(ctx context.Context, connID string, data []byte, limiter *rate.Limiter) {
	var call session.Call
	if err := json.Unmarshal(data, &call); err != nil {
		m.manager.ReportError(connID, "", fmt.Errorf("%w: malformed frame", domain.ErrInvalidInput))
		return
	}
	if !limiter.Allow() {
		m.manager.ReportError(connID, call.Name, domain.ErrRateLimited)
		return
	}
	_ = m.manager.Invoke(ctx, connID, call)
}
