package api

import (
	"context"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
)

// Directory is the record-level store access behind the REST API.
type Directory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpsertUser(ctx context.Context, u domain.User) (domain.User, error)
	GetRoom(ctx context.Context, id string) (domain.Room, error)
	GetAllRooms(ctx context.Context) ([]domain.Room, error)
	GetMessage(ctx context.Context, id string) (domain.Message, error)
}

// ActivityPort reads the activity mirror.
type ActivityPort interface {
	OnlineUsers(ctx context.Context) ([]string, error)
	RoomMessageCount(ctx context.Context, roomID string) (int64, error)
}

// UpsertUserRequest is the API request to create or update a user.
type UpsertUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=100"`
	Nickname string `json:"nickname" validate:"max=50"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// CreateRoomRequest is the API request to open a room.
type CreateRoomRequest struct {
	UserID  string `json:"userId" validate:"required"`
	AdminID string `json:"adminId"`
	Name    string `json:"name" validate:"max=100"`
}

// SendMessageRequest is the API request to post a message.
type SendMessageRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	SenderID string `json:"senderId" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// UpdateStatusRequest is the API request to advance message status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// UsersResponse is the API response for listing users.
type UsersResponse struct {
	Users []domain.User `json:"users"`
}

// RoomsResponse is the API response for listing rooms.
type RoomsResponse struct {
	Rooms []domain.Room `json:"rooms"`
}

// SummariesResponse is the API response for a viewer's chat list.
type SummariesResponse struct {
	Rooms []domain.RoomSummary `json:"rooms"`
}

// HistoryResponse is the API response for a room's full history.
type HistoryResponse struct {
	RoomID   string               `json:"roomId"`
	Messages []domain.MessageView `json:"messages"`
}

// StatusUpdateResponse lists the messages whose status changed.
type StatusUpdateResponse struct {
	RoomID     string        `json:"roomId"`
	MessageIDs []string      `json:"messageIds"`
	Status     domain.Status `json:"status"`
}

// OnlineResponse is the API response for presence queries.
type OnlineResponse struct {
	UserIDs     []string `json:"userIds"`
	Connections int      `json:"connections,omitempty"`
	Source      string   `json:"source"`
}

// RoomActivityResponse is the mirrored message count of a room.
type RoomActivityResponse struct {
	RoomID   string `json:"roomId"`
	Messages int64  `json:"messages"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
