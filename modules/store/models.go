package store

import (
	"time"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
)

// userRecord is the persisted form of a user.
type userRecord struct {
	ID        string    `gorm:"primarykey;size:36"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Name      string    `gorm:"size:100;not null"`
	Nickname  string    `gorm:"size:100"`
	Role      string    `gorm:"size:16;not null;default:user;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

// roomRecord is the persisted form of a room. The composite unique index
// keeps at most one room per (admin, user) pair.
type roomRecord struct {
	ID        string    `gorm:"primarykey;size:36"`
	Name      string    `gorm:"size:200;not null"`
	AdminID   string    `gorm:"size:36;not null;uniqueIndex:idx_rooms_pair,priority:1"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_rooms_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (roomRecord) TableName() string { return "rooms" }

// messageRecord is the persisted form of a message.
type messageRecord struct {
	ID        string    `gorm:"primarykey;size:26"`
	RoomID    string    `gorm:"size:36;not null;index:idx_messages_room_created,priority:1"`
	SenderID  string    `gorm:"size:36;not null"`
	Body      string    `gorm:"type:text;not null"`
	Status    uint8     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;index:idx_messages_room_created,priority:2"`
}

func (messageRecord) TableName() string { return "messages" }

func (r userRecord) toDomain() domain.User {
	// Unknown role strings fall back to the regular role.
	role, _ := domain.ParseRole(r.Role)
	return domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Nickname:  r.Nickname,
		Role:      role,
		CreatedAt: r.CreatedAt,
	}
}

func userFromDomain(u domain.User) userRecord {
	return userRecord{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Nickname:  u.Nickname,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func (r roomRecord) toDomain() domain.Room {
	return domain.Room{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		AdminID:   r.AdminID,
		UserID:    r.UserID,
	}
}

func roomFromDomain(r domain.Room) roomRecord {
	return roomRecord{
		ID:        r.ID,
		Name:      r.Name,
		AdminID:   r.AdminID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

func (r messageRecord) toDomain() domain.Message {
	return domain.Message{
		ID:        r.ID,
		RoomID:    r.RoomID,
		SenderID:  r.SenderID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		Status:    domain.Status(r.Status),
	}
}

func messageFromDomain(m domain.Message) messageRecord {
	return messageRecord{
		ID:        m.ID,
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		Status:    uint8(m.Status),
		CreatedAt: m.CreatedAt,
	}
}
