package api

import (
	"fmt"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/modules/session"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	app.Use("/ws", m.upgradeGuard)
	app.Get("/ws", m.websocketHandler())

	api := app.Group("/api/v1")

	api.Get("/users", m.listUsers)
	api.Get("/users/:id", m.getUser)
	api.Post("/users", m.upsertUser)
	api.Delete("/users/:id", m.deleteUser)

	api.Get("/rooms", m.listRooms)
	api.Get("/rooms/user/:userId", m.listRoomsForUser)
	api.Get("/rooms/:id", m.getRoom)
	api.Post("/rooms", m.createRoom)
	api.Delete("/rooms/:id", m.deleteRoom)
	api.Get("/rooms/:id/messages", m.getHistory)
	api.Get("/rooms/:id/messages/paged", m.getHistoryPage)
	api.Put("/rooms/:id/messages/status", m.updateRoomStatus)

	api.Post("/messages", m.sendMessage)
	api.Get("/messages/:id", m.getMessage)
	api.Delete("/messages/:id", m.deleteMessage)
	api.Put("/messages/:id/status", m.updateMessageStatus)

	api.Get("/presence", m.presence)
	if m.activity != nil {
		api.Get("/activity/online", m.activityOnline)
		api.Get("/activity/rooms/:id", m.activityRoom)
	}
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
			"online_users":      len(m.manager.Presence().OnlineUsers()),
		},
	})
}

// listUsers handles GET /api/v1/users.
func (m *APIModule) listUsers(c *fiber.Ctx) error {
	users, err := m.directory.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(UsersResponse{Users: users})
}

// getUser handles GET /api/v1/users/:id.
func (m *APIModule) getUser(c *fiber.Ctx) error {
	user, err := m.directory.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// upsertUser handles POST /api/v1/users.
func (m *APIModule) upsertUser(c *fiber.Ctx) error {
	var req UpsertUserRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	user, err := m.directory.UpsertUser(c.UserContext(), domain.User{
		Email:    req.Email,
		Name:     req.Name,
		Nickname: req.Nickname,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// deleteUser handles DELETE /api/v1/users/:id. The user's rooms are closed
// for live subscribers too.
func (m *APIModule) deleteUser(c *fiber.Ctx) error {
	if err := m.manager.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listRooms handles GET /api/v1/rooms.
func (m *APIModule) listRooms(c *fiber.Ctx) error {
	rooms, err := m.directory.GetAllRooms(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(RoomsResponse{Rooms: rooms})
}

// listRoomsForUser handles GET /api/v1/rooms/user/:userId.
func (m *APIModule) listRoomsForUser(c *fiber.Ctx) error {
	rooms, err := m.queries.RoomSummaries(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(SummariesResponse{Rooms: rooms})
}

// getRoom handles GET /api/v1/rooms/:id.
func (m *APIModule) getRoom(c *fiber.Ctx) error {
	room, err := m.directory.GetRoom(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(room)
}

// createRoom handles POST /api/v1/rooms.
func (m *APIModule) createRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}

	room, err := m.manager.CreateRoomForPair(c.UserContext(), req.AdminID, req.UserID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// deleteRoom handles DELETE /api/v1/rooms/:id.
func (m *APIModule) deleteRoom(c *fiber.Ctx) error {
	if err := m.manager.DeleteRoom(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// getHistory handles GET /api/v1/rooms/:id/messages.
func (m *APIModule) getHistory(c *fiber.Ctx) error {
	roomID := c.Params("id")
	messages, err := m.manager.History(c.UserContext(), roomID)
	if err != nil {
		return err
	}
	return c.JSON(HistoryResponse{RoomID: roomID, Messages: messages})
}

// getHistoryPage handles GET /api/v1/rooms/:id/messages/paged.
func (m *APIModule) getHistoryPage(c *fiber.Ctx) error {
	page, err := m.queries.HistoryPage(
		c.UserContext(),
		c.Params("id"),
		c.QueryInt("page", 1),
		c.QueryInt("pageSize", session.DefaultPageSize),
	)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// updateRoomStatus handles PUT /api/v1/rooms/:id/messages/status.
func (m *APIModule) updateRoomStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	roomID := c.Params("id")
	ids, err := m.manager.MarkRoomMessagesStatus(c.UserContext(), roomID, status, req.UserID)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(StatusUpdateResponse{RoomID: roomID, MessageIDs: ids, Status: status})
}

// sendMessage handles POST /api/v1/messages.
func (m *APIModule) sendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}

	msg, err := m.manager.SendMessageAs(c.UserContext(), req.SenderID, req.RoomID, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// getMessage handles GET /api/v1/messages/:id.
func (m *APIModule) getMessage(c *fiber.Ctx) error {
	msg, err := m.directory.GetMessage(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(msg)
}

// deleteMessage handles DELETE /api/v1/messages/:id.
func (m *APIModule) deleteMessage(c *fiber.Ctx) error {
	if err := m.manager.DeleteMessage(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// updateMessageStatus handles PUT /api/v1/messages/:id/status.
func (m *APIModule) updateMessageStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	msg, err := m.manager.UpdateMessageStatus(c.UserContext(), c.Params("id"), status, req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(msg)
}

// presence handles GET /api/v1/presence.
func (m *APIModule) presence(c *fiber.Ctx) error {
	online, err := m.queries.OnlineUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(OnlineResponse{
		UserIDs:     online.UserIDs,
		Connections: online.Connections,
		Source:      "session",
	})
}

// activityOnline handles GET /api/v1/activity/online.
func (m *APIModule) activityOnline(c *fiber.Ctx) error {
	users, err := m.activity.OnlineUsers(c.UserContext())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return c.JSON(OnlineResponse{UserIDs: users, Source: "activity"})
}

// activityRoom handles GET /api/v1/activity/rooms/:id.
func (m *APIModule) activityRoom(c *fiber.Ctx) error {
	roomID := c.Params("id")
	count, err := m.activity.RoomMessageCount(c.UserContext(), roomID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return c.JSON(RoomActivityResponse{RoomID: roomID, Messages: count})
}
