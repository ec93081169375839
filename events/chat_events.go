package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// MessageSentEvent is emitted when a message is appended to a room.
type MessageSentEvent struct {
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomCreatedEvent is emitted when a new room is created.
type RoomCreatedEvent struct {
	RoomID    string    `json:"room_id"`
	RoomName  string    `json:"room_name"`
	AdminID   string    `json:"admin_id"`
	UserID    string    `json:"user_id"`
	CreatedBy string    `json:"created_by"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomDeletedEvent is emitted when a room and its messages are removed.
type RoomDeletedEvent struct {
	RoomID    string    `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
}

// MessagesStatusUpdatedEvent is emitted when messages advance to a new status.
type MessagesStatusUpdatedEvent struct {
	RoomID     string    `json:"room_id"`
	MessageIDs []string  `json:"message_ids"`
	Status     string    `json:"status"`
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// PresenceChangedEvent is emitted when a connection of a user comes or goes.
type PresenceChangedEvent struct {
	UserID      string    `json:"user_id"`
	Online      bool      `json:"online"`
	Connections int       `json:"connections"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"session",
		"MessageSent",
		"v1",
	)

	RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
		"session",
		"RoomCreated",
		"v1",
	)

	RoomDeletedV1 = helper.EventDefinition[RoomDeletedEvent](
		"session",
		"RoomDeleted",
		"v1",
	)

	MessagesStatusUpdatedV1 = helper.EventDefinition[MessagesStatusUpdatedEvent](
		"session",
		"MessagesStatusUpdated",
		"v1",
	)

	PresenceChangedV1 = helper.EventDefinition[PresenceChangedEvent](
		"session",
		"PresenceChanged",
		"v1",
	)
)
