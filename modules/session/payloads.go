package session

import domain "github.com/Greenfield-Taster/ChatService/domain/chat"

// Server event names.
const (
	EventConnected             = "Connected"
	EventReceiveMessage        = "ReceiveMessage"
	EventChatUpdated           = "ChatUpdated"
	EventNewRoomCreated        = "NewRoomCreated"
	EventRoomCreated           = "RoomCreated"
	EventReceiveMessageHistory = "ReceiveMessageHistory"
	EventReceiveChats          = "ReceiveChats"
	EventMessagesRead          = "MessagesRead"
	EventMessagesStatusUpdated = "MessagesStatusUpdated"
	EventMessageDeleted        = "MessageDeleted"
	EventRoomDeleted           = "RoomDeleted"
	EventUserOnline            = "UserOnline"
	EventUserOffline           = "UserOffline"
	EventUserTyping            = "UserTyping"
	EventError                 = "Error"
)

type ConnectedPayload struct {
	ConnectionID string      `json:"connectionId"`
	User         domain.User `json:"user"`
}

type PresencePayload struct {
	UserID      string      `json:"userId"`
	Name        string      `json:"name,omitempty"`
	Role        domain.Role `json:"role"`
	Connections int         `json:"connections"`
}

type HistoryPayload struct {
	RoomID   string               `json:"roomId"`
	Messages []domain.MessageView `json:"messages"`
}

type ChatsPayload struct {
	Rooms []domain.RoomSummary `json:"rooms"`
}

type MessagesReadPayload struct {
	RoomID     string   `json:"roomId"`
	MessageIDs []string `json:"messageIds"`
	ReaderID   string   `json:"readerId"`
}

type StatusUpdatedPayload struct {
	RoomID     string        `json:"roomId"`
	MessageIDs []string      `json:"messageIds"`
	Status     domain.Status `json:"status"`
	UserID     string        `json:"userId"`
}

type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type MessageDeletedPayload struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId"`
}

type RoomDeletedPayload struct {
	RoomID string `json:"roomId"`
}

// ErrorPayload is sent only to the connection whose call failed.
type ErrorPayload struct {
	Call    string `json:"call,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
