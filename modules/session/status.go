package session

import (
	"context"
	"fmt"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/events"
	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
	"github.com/go-monolith/mono"
)

// MarkRead marks every message in a room not sent by readerID as read.
// Read receipts go out as MessagesRead.
func (m *Manager) MarkRead(ctx context.Context, roomID, readerID string) ([]string, error) {
	room, err := m.memberRoom(ctx, roomID, readerID)
	if err != nil {
		return nil, err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()
	return m.advanceLocked(ctx, room, domain.StatusRead, readerID, EventMessagesRead)
}

// MarkRoomMessagesStatus advances every message in a room that was not sent
// by userID to status. Messages already at or past status are left alone.
// Only participants may do this.
func (m *Manager) MarkRoomMessagesStatus(ctx context.Context, roomID string, status domain.Status, userID string) ([]string, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidStatus, status)
	}
	if status == domain.StatusSent {
		return nil, fmt.Errorf("%w: messages cannot be moved back to sent", domain.ErrInvalidTransition)
	}
	room, err := m.memberRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()
	return m.advanceLocked(ctx, room, status, userID, EventMessagesStatusUpdated)
}

// MarkMessagesStatus is the connection-scoped form of MarkRoomMessagesStatus.
func (m *Manager) MarkMessagesStatus(ctx context.Context, connID, roomID string, status domain.Status) ([]string, error) {
	userID, err := m.presence.Lookup(connID)
	if err != nil {
		return nil, err
	}
	return m.MarkRoomMessagesStatus(ctx, roomID, status, userID)
}

// advanceLocked must be called with the room lock held. event is either
// EventMessagesRead or EventMessagesStatusUpdated.
func (m *Manager) advanceLocked(ctx context.Context, room domain.Room, status domain.Status, byUserID, event string) ([]string, error) {
	ids, err := m.store.AdvanceRoomMessages(ctx, room.ID, byUserID, status)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	m.announceStatus(ctx, room, ids, status, byUserID, event)
	return ids, nil
}

// announceStatus tells the room and the counterpart about advanced messages.
// For reads both participants also get a refreshed summary.
func (m *Manager) announceStatus(ctx context.Context, room domain.Room, ids []string, status domain.Status, byUserID, event string) {
	counterpart := room.Counterpart(byUserID)
	targets := []broadcast.GroupKey{broadcast.RoomGroup(room.ID)}
	if counterpart != "" {
		targets = append(targets, broadcast.UserGroup(counterpart))
	}

	if event == EventMessagesRead {
		m.hub.BroadcastGroups(EventMessagesRead, MessagesReadPayload{
			RoomID:     room.ID,
			MessageIDs: ids,
			ReaderID:   byUserID,
		}, targets...)
	} else {
		m.hub.BroadcastGroups(EventMessagesStatusUpdated, StatusUpdatedPayload{
			RoomID:     room.ID,
			MessageIDs: ids,
			Status:     status,
			UserID:     byUserID,
		}, targets...)
	}

	if status == domain.StatusRead {
		m.refreshSummaries(ctx, room)
	}

	m.publish(func(bus mono.EventBus) error {
		return events.MessagesStatusUpdatedV1.Publish(bus, events.MessagesStatusUpdatedEvent{
			RoomID:     room.ID,
			MessageIDs: ids,
			Status:     status.String(),
			UserID:     byUserID,
			Timestamp:  m.now(),
		}, nil)
	})
}

// refreshSummaries pushes each participant's own view of the room: the
// user's to their personal group, the admin's to the admin pool.
func (m *Manager) refreshSummaries(ctx context.Context, room domain.Room) {
	msgs, err := m.store.GetMessagesByRoom(ctx, room.ID)
	if err != nil {
		m.logger.Error("Failed to refresh room summary", "roomID", room.ID, "error", err)
		return
	}
	cache := newUserCache(m.store)

	if userView, err := m.summarize(ctx, cache, room, msgs, room.UserID); err == nil {
		m.hub.Broadcast(broadcast.UserGroup(room.UserID), EventChatUpdated, userView)
	}
	if adminView, err := m.summarize(ctx, cache, room, msgs, room.AdminID); err == nil {
		m.hub.BroadcastGroups(EventChatUpdated, adminView,
			broadcast.UserGroup(room.AdminID),
			broadcast.AdminsGroup(),
		)
	}
}

// UpdateMessageStatus advances a single message on behalf of byUserID, who
// must be the recipient. Moving backwards or sideways is rejected.
func (m *Manager) UpdateMessageStatus(ctx context.Context, messageID string, status domain.Status, byUserID string) (domain.Message, error) {
	msg, err := m.store.GetMessage(ctx, messageID)
	if err != nil {
		return domain.Message{}, err
	}
	room, err := m.memberRoom(ctx, msg.RoomID, byUserID)
	if err != nil {
		return domain.Message{}, err
	}
	if msg.SenderID == byUserID {
		return domain.Message{}, fmt.Errorf("%w: senders cannot change the status of their own messages", domain.ErrForbidden)
	}
	if _, err := domain.Advance(msg.Status, status); err != nil {
		return domain.Message{}, err
	}

	unlock := m.rooms.Lock(room.ID)
	defer unlock()

	changed, err := m.store.UpdateMessageStatus(ctx, msg.ID, status)
	if err != nil {
		return domain.Message{}, err
	}
	if !changed {
		return domain.Message{}, fmt.Errorf("%w: message %s is already %s or later", domain.ErrInvalidTransition, msg.ID, status)
	}
	msg.Status = status
	m.announceStatus(ctx, room, []string{msg.ID}, status, byUserID, EventMessagesStatusUpdated)
	return msg, nil
}
