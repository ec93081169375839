package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the durable record of users, rooms and messages.
type Store struct {
	db *gorm.DB
}

// New wraps an opened database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open opens a SQLite database at path and migrates the schema. The pool is
// limited to a single connection, which serializes writers and keeps
// ":memory:" databases shared across calls.
func Open(path string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRecord{}, &roomRecord{}, &messageRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrapErr("get sql.DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return wrapErr("ping database", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// wrapErr translates gorm errors into the domain taxonomy.
func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return fmt.Errorf("%w: failed to %s: %w", domain.ErrStoreUnavailable, op, err)
	}
}

// Users

// GetUser returns a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return domain.User{}, wrapErr("find user "+id, err)
	}
	return rec.toDomain(), nil
}

// ListUsers returns every user ordered by registration.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	var recs []userRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, wrapErr("list users", err)
	}
	return lo.Map(recs, func(r userRecord, _ int) domain.User { return r.toDomain() }), nil
}

// GetAdmins returns every admin ordered by registration, then id.
func (s *Store) GetAdmins(ctx context.Context) ([]domain.User, error) {
	var recs []userRecord
	err := s.db.WithContext(ctx).
		Where("role = ?", domain.RoleAdmin.String()).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, wrapErr("list admins", err)
	}
	return lo.Map(recs, func(r userRecord, _ int) domain.User { return r.toDomain() }), nil
}

// UpsertUser creates the user, or updates the profile of the user holding
// the same email. The stored user is returned.
func (s *Store) UpsertUser(ctx context.Context, u domain.User) (domain.User, error) {
	var out userRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userRecord
		err := tx.First(&existing, "email = ?", u.Email).Error
		switch {
		case err == nil:
			existing.Name = u.Name
			existing.Nickname = u.Nickname
			existing.Role = u.Role.String()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			out = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec := userFromDomain(u)
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			if rec.CreatedAt.IsZero() {
				rec.CreatedAt = time.Now().UTC()
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			out = rec
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return domain.User{}, wrapErr("upsert user", err)
	}
	return out.toDomain(), nil
}

// DeleteUser removes a user together with their rooms and those rooms' messages.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&userRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		roomIDs := tx.Model(&roomRecord{}).Select("id").Where("admin_id = ? OR user_id = ?", id, id)
		if err := tx.Where("room_id IN (?)", roomIDs).Delete(&messageRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("admin_id = ? OR user_id = ?", id, id).Delete(&roomRecord{}).Error
	})
	if err != nil {
		return wrapErr("delete user "+id, err)
	}
	return nil
}

// Rooms

// GetRoom returns a room by id.
func (s *Store) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	var rec roomRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return domain.Room{}, wrapErr("find room "+id, err)
	}
	return rec.toDomain(), nil
}

// GetRoomByPair returns the room shared by an admin and a user.
func (s *Store) GetRoomByPair(ctx context.Context, adminID, userID string) (domain.Room, error) {
	var rec roomRecord
	err := s.db.WithContext(ctx).
		First(&rec, "admin_id = ? AND user_id = ?", adminID, userID).Error
	if err != nil {
		return domain.Room{}, wrapErr("find room by pair", err)
	}
	return rec.toDomain(), nil
}

// GetRoomsByParticipant returns the rooms a user takes part in, oldest first.
func (s *Store) GetRoomsByParticipant(ctx context.Context, userID string) ([]domain.Room, error) {
	var recs []roomRecord
	err := s.db.WithContext(ctx).
		Where("admin_id = ? OR user_id = ?", userID, userID).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, wrapErr("list rooms of "+userID, err)
	}
	return lo.Map(recs, func(r roomRecord, _ int) domain.Room { return r.toDomain() }), nil
}

// GetAllRooms returns every room, oldest first.
func (s *Store) GetAllRooms(ctx context.Context) ([]domain.Room, error) {
	var recs []roomRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, wrapErr("list rooms", err)
	}
	return lo.Map(recs, func(r roomRecord, _ int) domain.Room { return r.toDomain() }), nil
}

// AdminRoomCounts returns the number of rooms assigned to each admin that has any.
func (s *Store) AdminRoomCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		AdminID string
		Total   int
	}
	err := s.db.WithContext(ctx).
		Model(&roomRecord{}).
		Select("admin_id, COUNT(*) AS total").
		Group("admin_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("count rooms per admin", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.AdminID] = r.Total
	}
	return counts, nil
}

// CreateRoom persists a new room. A second room for the same (admin, user)
// pair fails with ErrConflict.
func (s *Store) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	rec := roomFromDomain(room)
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Room{}, wrapErr("create room", err)
	}
	return rec.toDomain(), nil
}

// DeleteRoom removes a room and its messages.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&messageRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&roomRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return wrapErr("delete room "+id, err)
	}
	return nil
}

// Messages

// AppendMessage persists a new message.
func (s *Store) AppendMessage(ctx context.Context, msg domain.Message) error {
	rec := messageFromDomain(msg)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return wrapErr("append message", err)
	}
	return nil
}

// GetMessage returns a message by id.
func (s *Store) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	var rec messageRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return domain.Message{}, wrapErr("find message "+id, err)
	}
	return rec.toDomain(), nil
}

// GetMessagesByRoom returns a room's messages in send order.
func (s *Store) GetMessagesByRoom(ctx context.Context, roomID string) ([]domain.Message, error) {
	var recs []messageRecord
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, wrapErr("list messages of room "+roomID, err)
	}
	return lo.Map(recs, func(r messageRecord, _ int) domain.Message { return r.toDomain() }), nil
}

// GetMessagesPage returns one page of a room's messages in send order,
// together with the room's total message count.
func (s *Store) GetMessagesPage(ctx context.Context, roomID string, offset, limit int) ([]domain.Message, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&messageRecord{}).Where("room_id = ?", roomID).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count messages of room "+roomID, err)
	}

	var recs []messageRecord
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at, id").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, 0, wrapErr("page messages of room "+roomID, err)
	}
	return lo.Map(recs, func(r messageRecord, _ int) domain.Message { return r.toDomain() }), total, nil
}

// DeleteMessage removes a message and returns what was deleted.
func (s *Store) DeleteMessage(ctx context.Context, id string) (domain.Message, error) {
	var rec messageRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&messageRecord{}, "id = ?", id).Error
	})
	if err != nil {
		return domain.Message{}, wrapErr("delete message "+id, err)
	}
	return rec.toDomain(), nil
}

// UpdateMessageStatus moves a message to status if, and only if, its
// current status is earlier. It reports whether the row changed.
func (s *Store) UpdateMessageStatus(ctx context.Context, id string, status domain.Status) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&messageRecord{}).
		Where("id = ? AND status < ?", id, uint8(status)).
		Update("status", uint8(status))
	if res.Error != nil {
		return false, wrapErr("update message status", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&messageRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, wrapErr("update message status", err)
	}
	if count == 0 {
		return false, fmt.Errorf("find message %s: %w", id, domain.ErrNotFound)
	}
	return false, nil
}

// AdvanceRoomMessages moves every message in the room that was not sent by
// excludingSenderID and whose status is earlier than status. The ids of the
// advanced messages are returned in send order.
func (s *Store) AdvanceRoomMessages(ctx context.Context, roomID, excludingSenderID string, status domain.Status) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&messageRecord{}).
			Where("room_id = ? AND sender_id <> ? AND status < ?", roomID, excludingSenderID, uint8(status)).
			Order("created_at, id").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&messageRecord{}).
			Where("id IN ? AND status < ?", ids, uint8(status)).
			Update("status", uint8(status)).Error
	})
	if err != nil {
		return nil, wrapErr("advance room messages", err)
	}
	return ids, nil
}
