package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/events"
	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

// Manager runs the realtime chat operations. Membership is checked against
// the store on every call, message mutation is serialized per room, and the
// manager decides which connections hear about each change.
type Manager struct {
	store    RoomStore
	hub      Broadcaster
	presence *Presence
	rooms    *keyedMutex
	creates  singleflight.Group
	bus      mono.EventBus
	logger   types.Logger
	now      func() time.Time
}

// NewManager creates a session manager.
func NewManager(store RoomStore, hub Broadcaster, logger types.Logger) *Manager {
	return &Manager{
		store:    store,
		hub:      hub,
		presence: NewPresence(store, hub),
		rooms:    newKeyedMutex(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetEventBus enables publishing of domain events. Without a bus the manager
// only talks to connections.
func (m *Manager) SetEventBus(bus mono.EventBus) {
	m.bus = bus
}

// Presence returns the presence registry.
func (m *Manager) Presence() *Presence {
	return m.presence
}

// caller resolves a connection to its user, re-reading the user from the store.
func (m *Manager) caller(ctx context.Context, connID string) (domain.User, error) {
	userID, err := m.presence.Lookup(connID)
	if err != nil {
		return domain.User{}, err
	}
	return m.store.GetUser(ctx, userID)
}

// memberRoom loads a room and checks that userID takes part in it.
func (m *Manager) memberRoom(ctx context.Context, roomID, userID string) (domain.Room, error) {
	room, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.HasParticipant(userID) {
		return domain.Room{}, fmt.Errorf("%w: user %s is not a participant of room %s", domain.ErrForbidden, userID, roomID)
	}
	return room, nil
}

// ConnectUser authenticates a connection as userID, subscribes it to the
// user's rooms and announces the user to the admin pool. Admins also get
// the full chat list.
func (m *Manager) ConnectUser(ctx context.Context, connID, userID string) error {
	prev, prevErr := m.presence.Lookup(connID)

	user, err := m.presence.Register(ctx, connID, userID)
	if err != nil {
		return err
	}
	if prevErr == nil && prev != user.ID {
		m.dropRoomSubscriptions(ctx, connID, prev)
	}

	rooms, err := m.store.GetRoomsByParticipant(ctx, user.ID)
	if err != nil {
		m.presence.Unregister(connID)
		return err
	}
	for _, room := range rooms {
		m.hub.Subscribe(connID, broadcast.RoomGroup(room.ID))
	}

	m.hub.Send(connID, EventConnected, ConnectedPayload{ConnectionID: connID, User: user})

	connections := len(m.presence.Connections(user.ID))
	m.hub.Broadcast(broadcast.AdminsGroup(), EventUserOnline, PresencePayload{
		UserID:      user.ID,
		Name:        user.DisplayName(),
		Role:        user.Role,
		Connections: connections,
	})
	m.publishPresence(user.ID, true, connections)

	if user.Role.IsAdmin() {
		summaries, err := m.RoomSummaries(ctx, user)
		if err != nil {
			return err
		}
		m.hub.Send(connID, EventReceiveChats, ChatsPayload{Rooms: summaries})
	}

	m.logger.Info("User connected",
		"connID", connID,
		"userID", user.ID,
		"role", user.Role.String(),
		"rooms", len(rooms))
	return nil
}

func (m *Manager) dropRoomSubscriptions(ctx context.Context, connID, userID string) {
	rooms, err := m.store.GetRoomsByParticipant(ctx, userID)
	if err != nil {
		m.logger.Warn("Failed to list rooms of previous user", "connID", connID, "userID", userID, "error", err)
		return
	}
	for _, room := range rooms {
		m.hub.Unsubscribe(connID, broadcast.RoomGroup(room.ID))
	}
}

// Disconnect forgets a connection. If it was authenticated the admin pool
// is told the user went offline.
func (m *Manager) Disconnect(_ context.Context, connID string) {
	userID, remaining, ok := m.presence.Unregister(connID)
	m.presence.Unbind(connID)
	m.hub.Unregister(connID)
	if !ok {
		return
	}

	m.hub.Broadcast(broadcast.AdminsGroup(), EventUserOffline, PresencePayload{
		UserID:      userID,
		Connections: remaining,
	})
	m.publishPresence(userID, false, remaining)
	m.logger.Info("User disconnected", "connID", connID, "userID", userID, "remaining", remaining)
}

type createResult struct {
	room    domain.Room
	created bool
}

// CreateRoom opens the support room for targetUserID, or returns the one
// that already exists. Admins may open rooms for anyone, regular users only
// for themselves. Concurrent requests for the same target share one creation.
func (m *Manager) CreateRoom(ctx context.Context, connID, targetUserID string) (domain.Room, error) {
	requester, err := m.caller(ctx, connID)
	if err != nil {
		return domain.Room{}, err
	}
	if !requester.Role.CanCreateRoomFor(requester.ID, targetUserID) {
		return domain.Room{}, fmt.Errorf("%w: %s may not open a room for %s", domain.ErrForbidden, requester.ID, targetUserID)
	}

	v, err, _ := m.creates.Do(targetUserID, func() (any, error) {
		return m.findOrCreateRoom(ctx, requester, targetUserID)
	})
	if err != nil {
		return domain.Room{}, err
	}
	res := v.(createResult)

	// An admin asking for another admin's existing room gets the room back
	// but does not hear its traffic.
	if res.room.HasParticipant(requester.ID) {
		m.hub.Subscribe(connID, broadcast.RoomGroup(res.room.ID))
	}
	m.hub.Send(connID, EventRoomCreated, res.room)
	return res.room, nil
}

func (m *Manager) findOrCreateRoom(ctx context.Context, requester domain.User, targetUserID string) (createResult, error) {
	target, err := m.store.GetUser(ctx, targetUserID)
	if err != nil {
		return createResult{}, err
	}
	if target.Role.IsAdmin() {
		return createResult{}, fmt.Errorf("%w: support rooms are opened for regular users", domain.ErrInvalidInput)
	}

	rooms, err := m.store.GetRoomsByParticipant(ctx, target.ID)
	if err != nil {
		return createResult{}, err
	}
	if existing, ok := lo.Find(rooms, func(r domain.Room) bool { return r.UserID == target.ID }); ok {
		return createResult{room: existing}, nil
	}

	adminID := requester.ID
	if !requester.Role.IsAdmin() {
		admin, err := m.pickAdmin(ctx)
		if err != nil {
			return createResult{}, err
		}
		adminID = admin.ID
	}

	room, err := m.store.CreateRoom(ctx, domain.Room{
		ID:        uuid.New().String(),
		Name:      domain.DefaultRoomName(target),
		CreatedAt: m.now(),
		AdminID:   adminID,
		UserID:    target.ID,
	})
	if errors.Is(err, domain.ErrConflict) {
		room, err = m.store.GetRoomByPair(ctx, adminID, target.ID)
		return createResult{room: room}, err
	}
	if err != nil {
		return createResult{}, err
	}

	m.announceRoom(ctx, room, requester.ID)
	return createResult{room: room, created: true}, nil
}

// pickAdmin returns the admin with the fewest rooms. Ties go to the
// earliest registered admin, then the lowest id.
func (m *Manager) pickAdmin(ctx context.Context) (domain.User, error) {
	admins, err := m.store.GetAdmins(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if len(admins) == 0 {
		return domain.User{}, fmt.Errorf("%w: no admin available", domain.ErrNotFound)
	}
	counts, err := m.store.AdminRoomCounts(ctx)
	if err != nil {
		return domain.User{}, err
	}
	return lo.MinBy(admins, func(a, b domain.User) bool {
		if counts[a.ID] != counts[b.ID] {
			return counts[a.ID] < counts[b.ID]
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}), nil
}

// CreateRoomForPair opens a room between an explicit admin and user. An
// empty adminID applies the admin selection policy. Unlike CreateRoom an
// existing pair is reported as a conflict.
func (m *Manager) CreateRoomForPair(ctx context.Context, adminID, userID, name string) (domain.Room, error) {
	user, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return domain.Room{}, err
	}
	if user.Role.IsAdmin() {
		return domain.Room{}, fmt.Errorf("%w: support rooms are opened for regular users", domain.ErrInvalidInput)
	}

	var admin domain.User
	if adminID == "" {
		admin, err = m.pickAdmin(ctx)
	} else {
		admin, err = m.store.GetUser(ctx, adminID)
	}
	if err != nil {
		return domain.Room{}, err
	}
	if !admin.Role.IsAdmin() {
		return domain.Room{}, fmt.Errorf("%w: %s is not an admin", domain.ErrInvalidInput, admin.ID)
	}

	if name == "" {
		name = domain.DefaultRoomName(user)
	}
	room, err := m.store.CreateRoom(ctx, domain.Room{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: m.now(),
		AdminID:   admin.ID,
		UserID:    user.ID,
	})
	if err != nil {
		return domain.Room{}, err
	}

	m.announceRoom(ctx, room, admin.ID)
	return room, nil
}

func (m *Manager) announceRoom(ctx context.Context, room domain.Room, createdBy string) {
	summary, err := m.summaryFor(ctx, room, room.AdminID)
	if err != nil {
		m.logger.Error("Failed to build room summary", "roomID", room.ID, "error", err)
	} else {
		m.hub.Broadcast(broadcast.AdminsGroup(), EventNewRoomCreated, summary)
	}

	m.publish(func(bus mono.EventBus) error {
		return events.RoomCreatedV1.Publish(bus, events.RoomCreatedEvent{
			RoomID:    room.ID,
			RoomName:  room.Name,
			AdminID:   room.AdminID,
			UserID:    room.UserID,
			CreatedBy: createdBy,
			Timestamp: room.CreatedAt,
		}, nil)
	})
	m.logger.Info("Room created", "roomID", room.ID, "adminID", room.AdminID, "userID", room.UserID)
}

// JoinRoom subscribes a participant's connection to a room, pushes the room
// history and marks everything addressed to the caller as read.
func (m *Manager) JoinRoom(ctx context.Context, connID, roomID string) error {
	userID, err := m.presence.Lookup(connID)
	if err != nil {
		return err
	}
	room, err := m.memberRoom(ctx, roomID, userID)
	if err != nil {
		return err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()

	msgs, err := m.store.GetMessagesByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	views, err := m.views(ctx, newUserCache(m.store), msgs)
	if err != nil {
		return err
	}

	m.hub.Subscribe(connID, broadcast.RoomGroup(room.ID))
	m.hub.Send(connID, EventReceiveMessageHistory, HistoryPayload{RoomID: room.ID, Messages: views})

	_, err = m.advanceLocked(ctx, room, domain.StatusRead, userID, EventMessagesRead)
	return err
}

// LeaveRoom unsubscribes a connection from a room. Leaving is always allowed.
func (m *Manager) LeaveRoom(_ context.Context, connID, roomID string) error {
	m.hub.Unsubscribe(connID, broadcast.RoomGroup(roomID))
	return nil
}

// SendMessage appends a message from the connection's user to a room.
func (m *Manager) SendMessage(ctx context.Context, connID, roomID, body string) (domain.Message, error) {
	userID, err := m.presence.Lookup(connID)
	if err != nil {
		return domain.Message{}, err
	}
	return m.SendMessageAs(ctx, userID, roomID, body)
}

// SendMessageAs appends a message from senderID to a room, broadcasts it to
// the room and pushes refreshed summaries to the admin pool and, for
// messages from the admin, to the room's user.
func (m *Manager) SendMessageAs(ctx context.Context, senderID, roomID, body string) (domain.Message, error) {
	if err := domain.ValidateMessage(body); err != nil {
		return domain.Message{}, err
	}
	room, err := m.memberRoom(ctx, roomID, senderID)
	if err != nil {
		return domain.Message{}, err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()

	msg := domain.Message{
		ID:        ulid.Make().String(),
		RoomID:    room.ID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: m.now(),
		Status:    domain.StatusSent,
	}
	if err := m.store.AppendMessage(ctx, msg); err != nil {
		return domain.Message{}, err
	}

	cache := newUserCache(m.store)
	sender, err := cache.get(ctx, senderID)
	if err != nil {
		m.logger.Warn("Failed to resolve sender", "userID", senderID, "error", err)
	}
	m.hub.Broadcast(broadcast.RoomGroup(room.ID), EventReceiveMessage, domain.MessageView{
		Message:    msg,
		SenderName: sender.DisplayName(),
	})

	m.publish(func(bus mono.EventBus) error {
		return events.MessageSentV1.Publish(bus, events.MessageSentEvent{
			MessageID: msg.ID,
			RoomID:    msg.RoomID,
			SenderID:  msg.SenderID,
			Timestamp: msg.CreatedAt,
		}, nil)
	})

	// The message is already stored; summary failures are only logged.
	msgs, err := m.store.GetMessagesByRoom(ctx, room.ID)
	if err != nil {
		m.logger.Error("Failed to refresh room summary", "roomID", room.ID, "error", err)
		return msg, nil
	}
	adminView, err := m.summarize(ctx, cache, room, msgs, room.AdminID)
	if err != nil {
		m.logger.Error("Failed to refresh room summary", "roomID", room.ID, "error", err)
		return msg, nil
	}
	m.hub.Broadcast(broadcast.AdminsGroup(), EventChatUpdated, adminView)

	if senderID != room.UserID {
		userView, err := m.summarize(ctx, cache, room, msgs, room.UserID)
		if err == nil {
			m.hub.Broadcast(broadcast.UserGroup(room.UserID), EventChatUpdated, userView)
		}
	}

	m.logger.Debug("Message sent", "roomID", room.ID, "messageID", msg.ID, "senderID", senderID)
	return msg, nil
}

// SendTyping relays a typing indicator to a room. Nothing is stored.
func (m *Manager) SendTyping(_ context.Context, connID, roomID string, isTyping bool) error {
	userID, err := m.presence.Lookup(connID)
	if err != nil {
		return err
	}
	m.hub.Broadcast(broadcast.RoomGroup(roomID), EventUserTyping, TypingPayload{
		RoomID:   roomID,
		UserID:   userID,
		IsTyping: isTyping,
	})
	return nil
}

// GetAllChats sends an admin the summary of every room.
func (m *Manager) GetAllChats(ctx context.Context, connID string) error {
	user, err := m.caller(ctx, connID)
	if err != nil {
		return err
	}
	if !user.Role.CanViewAllRooms() {
		return fmt.Errorf("%w: only admins may list all chats", domain.ErrForbidden)
	}
	summaries, err := m.RoomSummaries(ctx, user)
	if err != nil {
		return err
	}
	m.hub.Send(connID, EventReceiveChats, ChatsPayload{Rooms: summaries})
	return nil
}

// DeleteRoom removes a room with its messages and tells everyone who could see it.
func (m *Manager) DeleteRoom(ctx context.Context, roomID string) error {
	room, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()

	if err := m.store.DeleteRoom(ctx, room.ID); err != nil {
		return err
	}
	m.hub.BroadcastGroups(EventRoomDeleted, RoomDeletedPayload{RoomID: room.ID},
		broadcast.RoomGroup(room.ID),
		broadcast.AdminsGroup(),
		broadcast.UserGroup(room.UserID),
	)
	m.hub.CloseGroup(broadcast.RoomGroup(room.ID))

	m.publish(func(bus mono.EventBus) error {
		return events.RoomDeletedV1.Publish(bus, events.RoomDeletedEvent{
			RoomID:    room.ID,
			Timestamp: m.now(),
		}, nil)
	})
	m.logger.Info("Room deleted", "roomID", room.ID)
	return nil
}

// DeleteMessage removes a single message and refreshes the admin view of its room.
func (m *Manager) DeleteMessage(ctx context.Context, messageID string) error {
	msg, err := m.store.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	room, err := m.store.GetRoom(ctx, msg.RoomID)
	if err != nil {
		return err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()

	if _, err := m.store.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	m.hub.Broadcast(broadcast.RoomGroup(room.ID), EventMessageDeleted, MessageDeletedPayload{
		RoomID:    room.ID,
		MessageID: messageID,
	})

	if summary, err := m.summaryFor(ctx, room, room.AdminID); err == nil {
		m.hub.Broadcast(broadcast.AdminsGroup(), EventChatUpdated, summary)
	}
	return nil
}

// DeleteUser removes a user. Each of the user's rooms is deleted the way
// DeleteRoom does it, then the user record goes and any live connections
// of the user lose their authentication.
func (m *Manager) DeleteUser(ctx context.Context, userID string) error {
	user, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	rooms, err := m.store.GetRoomsByParticipant(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		if err := m.DeleteRoom(ctx, room.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	if err := m.store.DeleteUser(ctx, user.ID); err != nil {
		return err
	}

	// Room groups were closed above; only the personal groups remain.
	if evicted := m.presence.Evict(user.ID); len(evicted) > 0 {
		m.hub.Broadcast(broadcast.AdminsGroup(), EventUserOffline, PresencePayload{
			UserID: user.ID,
			Name:   user.DisplayName(),
			Role:   user.Role,
		})
		m.publishPresence(user.ID, false, 0)
	}
	m.logger.Info("User deleted", "userID", user.ID, "rooms", len(rooms))
	return nil
}

func (m *Manager) publishPresence(userID string, online bool, connections int) {
	m.publish(func(bus mono.EventBus) error {
		return events.PresenceChangedV1.Publish(bus, events.PresenceChangedEvent{
			UserID:      userID,
			Online:      online,
			Connections: connections,
			Timestamp:   m.now(),
		}, nil)
	})
}

func (m *Manager) publish(fn func(bus mono.EventBus) error) {
	if m.bus == nil {
		return
	}
	if err := fn(m.bus); err != nil {
		m.logger.Warn("Failed to publish event", "error", err)
	}
}
