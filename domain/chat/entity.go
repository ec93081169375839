package chat

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of user roles.
type Role uint8

const (
	RoleUser Role = iota
	RoleAdmin
)

// ParseRole parses the persisted form of a role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "user"
}

// MarshalText encodes the role as "admin" or "user".
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes "admin" or "user".
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// IsAdmin reports whether the role belongs to the admin pool.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// CanViewAllRooms reports whether the role sees every room rather than only its own.
func (r Role) CanViewAllRooms() bool { return r == RoleAdmin }

// CanCreateRoomFor reports whether a requester holding this role may open a
// room on behalf of targetID. Admins may open rooms for anyone; regular users
// only for themselves.
func (r Role) CanCreateRoomFor(requesterID, targetID string) bool {
	return r == RoleAdmin || requesterID == targetID
}

// User is a chat participant. Identity is issued elsewhere.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName returns the nickname when set, the name otherwise.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

// Room is a two-party conversation between one admin and one regular user.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	AdminID   string    `json:"adminId"`
	UserID    string    `json:"userId"`
}

// HasParticipant reports whether userID is the room's admin or its user.
func (r Room) HasParticipant(userID string) bool {
	return userID != "" && (r.AdminID == userID || r.UserID == userID)
}

// Counterpart returns the other participant of the room, or "" if userID is
// not a participant.
func (r Room) Counterpart(userID string) string {
	switch userID {
	case r.AdminID:
		return r.UserID
	case r.UserID:
		return r.AdminID
	default:
		return ""
	}
}

// DefaultRoomName is the name given to rooms created without one.
func DefaultRoomName(user User) string {
	return "Support chat for " + user.DisplayName()
}

// Message is a single chat message.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"senderId"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
}

// MessageView is a message with its sender denormalized for clients.
type MessageView struct {
	Message
	SenderName string `json:"senderName"`
}

// RoomSummary is a room as shown in a chat list, seen from one viewer.
type RoomSummary struct {
	RoomID        string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	AdminID       string    `json:"adminId"`
	AdminName     string    `json:"adminName"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"lastMessageTimestamp"`
	UnreadCount   int       `json:"unreadCount"`
	UserOnline    bool      `json:"userOnline"`
}
