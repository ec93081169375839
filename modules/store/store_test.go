package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a store backed by an in-memory SQLite database.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(":memory:", false)
	require.NoError(t, err)

	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedPair(t *testing.T, s *Store) (admin, user domain.User) {
	t.Helper()
	ctx := context.Background()

	admin, err := s.UpsertUser(ctx, domain.User{Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	user, err = s.UpsertUser(ctx, domain.User{Email: "user@example.com", Name: "User", Role: domain.RoleUser})
	require.NoError(t, err)
	return admin, user
}

func TestStore_UpsertUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.UpsertUser(ctx, domain.User{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.RoleUser, created.Role)

	updated, err := s.UpsertUser(ctx, domain.User{Email: "a@example.com", Name: "A2", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "A2", updated.Name)
	assert.True(t, updated.Role.IsAdmin())

	got, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)
}

func TestStore_GetUser_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_GetAdmins(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	users, err := s.Seed(ctx, DemoUsers)
	require.NoError(t, err)
	require.Len(t, users, len(DemoUsers))

	admins, err := s.GetAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	for _, a := range admins {
		assert.True(t, a.Role.IsAdmin())
	}
}

func TestStore_CreateRoom_DuplicatePair(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.False(t, room.CreatedAt.IsZero())

	_, err = s.CreateRoom(ctx, domain.Room{Name: "again", AdminID: admin.ID, UserID: user.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	byPair, err := s.GetRoomByPair(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, byPair.ID)

	rooms, err := s.GetRoomsByParticipant(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	counts, err := s.AdminRoomCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[admin.ID])
}

func TestStore_DeleteRoom_Cascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(ctx, domain.Message{
		ID: "m1", RoomID: room.ID, SenderID: user.ID, Body: "hi", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, s.DeleteRoom(ctx, room.ID))

	_, err = s.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetMessage(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.DeleteRoom(ctx, room.ID), domain.ErrNotFound)
}

func TestStore_UpdateMessageStatus_ForwardOnly(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)
	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(ctx, domain.Message{
		ID: "m1", RoomID: room.ID, SenderID: user.ID, Body: "hi", CreatedAt: time.Now().UTC(),
	}))

	changed, err := s.UpdateMessageStatus(ctx, "m1", domain.StatusRead)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.UpdateMessageStatus(ctx, "m1", domain.StatusDelivered)
	require.NoError(t, err)
	assert.False(t, changed)

	msg, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRead, msg.Status)

	_, err = s.UpdateMessageStatus(ctx, "missing", domain.StatusRead)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_AdvanceRoomMessages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)
	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)

	base := time.Now().UTC()
	msgs := []domain.Message{
		{ID: "m1", SenderID: user.ID, Status: domain.StatusSent},
		{ID: "m2", SenderID: user.ID, Status: domain.StatusDelivered},
		{ID: "m3", SenderID: admin.ID, Status: domain.StatusSent},
		{ID: "m4", SenderID: user.ID, Status: domain.StatusRead},
	}
	for i, m := range msgs {
		m.RoomID = room.ID
		m.Body = "body"
		m.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, s.AppendMessage(ctx, m))
	}

	ids, err := s.AdvanceRoomMessages(ctx, room.ID, admin.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ids)

	ids, err = s.AdvanceRoomMessages(ctx, room.ID, admin.ID, domain.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)

	all, err := s.GetMessagesByRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, domain.StatusSent, all[2].Status, "reader's own message must not advance")
	assert.Equal(t, 0, domain.UnreadCount(all, admin.ID))
	assert.Equal(t, 1, domain.UnreadCount(all, user.ID))
}

func TestStore_GetMessagesPage(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)
	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendMessage(ctx, domain.Message{
			ID: fmt.Sprintf("m%d", i), RoomID: room.ID, SenderID: user.ID, Body: "x",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	page, total, err := s.GetMessagesPage(ctx, room.ID, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "m2", page[0].ID)
	assert.Equal(t, "m3", page[1].ID)
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)
	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.AppendMessage(ctx, domain.Message{
				ID: fmt.Sprintf("m%02d", i), RoomID: room.ID, SenderID: user.ID, Body: "x",
				CreatedAt: time.Now().UTC(),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.GetMessagesByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestStore_DeleteUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	admin, user := seedPair(t, s)
	room, err := s.CreateRoom(ctx, domain.Room{Name: "r", AdminID: admin.ID, UserID: user.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err = s.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, user.ID), domain.ErrNotFound)
}
