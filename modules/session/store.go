//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../../mocks/mock_room_store.go -package=mocks

package session

import (
	"context"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
)

// RoomStore is the durable collaborator behind the session manager. Every
// method may fail with domain.ErrNotFound or domain.ErrStoreUnavailable.
type RoomStore interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetAdmins(ctx context.Context) ([]domain.User, error)
	AdminRoomCounts(ctx context.Context) (map[string]int, error)
	DeleteUser(ctx context.Context, id string) error

	GetRoom(ctx context.Context, id string) (domain.Room, error)
	GetRoomByPair(ctx context.Context, adminID, userID string) (domain.Room, error)
	GetRoomsByParticipant(ctx context.Context, userID string) ([]domain.Room, error)
	GetAllRooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error

	AppendMessage(ctx context.Context, msg domain.Message) error
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	GetMessagesByRoom(ctx context.Context, roomID string) ([]domain.Message, error)
	GetMessagesPage(ctx context.Context, roomID string, offset, limit int) ([]domain.Message, int64, error)
	UpdateMessageStatus(ctx context.Context, id string, status domain.Status) (bool, error)
	AdvanceRoomMessages(ctx context.Context, roomID, excludingSenderID string, status domain.Status) ([]string, error)
	DeleteMessage(ctx context.Context, id string) (domain.Message, error)
}
