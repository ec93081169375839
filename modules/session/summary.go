package session

import (
	"context"
	"sort"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/samber/lo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one page of a room's history.
type Page struct {
	Items           []domain.MessageView `json:"items"`
	Page            int                  `json:"page"`
	PageSize        int                  `json:"pageSize"`
	TotalCount      int64                `json:"totalCount"`
	TotalPages      int                  `json:"totalPages"`
	HasPreviousPage bool                 `json:"hasPreviousPage"`
	HasNextPage     bool                 `json:"hasNextPage"`
}

// userCache memoizes user lookups for the duration of one operation.
type userCache struct {
	lookup UserLookup
	users  map[string]domain.User
}

func newUserCache(lookup UserLookup) *userCache {
	return &userCache{lookup: lookup, users: make(map[string]domain.User)}
}

func (c *userCache) get(ctx context.Context, id string) (domain.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	u, err := c.lookup.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	c.users[id] = u
	return u, nil
}

// name resolves a display name, falling back to the id for users that no
// longer exist.
func (c *userCache) name(ctx context.Context, id string) (string, error) {
	u, err := c.get(ctx, id)
	if err == nil {
		return u.DisplayName(), nil
	}
	if domain.Code(err) == domain.CodeNotFound {
		return id, nil
	}
	return "", err
}

// summarize builds the summary of room as seen by viewer. msgs must be the
// room's messages in chronological order.
func (m *Manager) summarize(ctx context.Context, cache *userCache, room domain.Room, msgs []domain.Message, viewer string) (domain.RoomSummary, error) {
	adminName, err := cache.name(ctx, room.AdminID)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	userName, err := cache.name(ctx, room.UserID)
	if err != nil {
		return domain.RoomSummary{}, err
	}

	s := domain.RoomSummary{
		RoomID:        room.ID,
		Name:          room.Name,
		CreatedAt:     room.CreatedAt,
		AdminID:       room.AdminID,
		AdminName:     adminName,
		UserID:        room.UserID,
		UserName:      userName,
		LastMessageAt: room.CreatedAt,
		UnreadCount:   domain.UnreadCount(msgs, viewer),
		UserOnline:    m.presence.IsOnline(room.UserID),
	}
	if n := len(msgs); n > 0 {
		s.LastMessage = msgs[n-1].Body
		s.LastMessageAt = msgs[n-1].CreatedAt
	}
	return s, nil
}

// summaryFor loads the room's messages and summarizes it for viewer.
func (m *Manager) summaryFor(ctx context.Context, room domain.Room, viewer string) (domain.RoomSummary, error) {
	msgs, err := m.store.GetMessagesByRoom(ctx, room.ID)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	return m.summarize(ctx, newUserCache(m.store), room, msgs, viewer)
}

// viewpoint picks whose unread count a summary carries: the viewer's own when
// they take part in the room, the room admin's otherwise.
func viewpoint(room domain.Room, viewer string) string {
	if room.HasParticipant(viewer) {
		return viewer
	}
	return room.AdminID
}

// RoomSummaries lists the rooms visible to viewer, most recently active first.
// Admins see every room, regular users only their own.
func (m *Manager) RoomSummaries(ctx context.Context, viewer domain.User) ([]domain.RoomSummary, error) {
	var (
		rooms []domain.Room
		err   error
	)
	if viewer.Role.CanViewAllRooms() {
		rooms, err = m.store.GetAllRooms(ctx)
	} else {
		rooms, err = m.store.GetRoomsByParticipant(ctx, viewer.ID)
	}
	if err != nil {
		return nil, err
	}

	cache := newUserCache(m.store)
	cache.users[viewer.ID] = viewer
	summaries := make([]domain.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		msgs, err := m.store.GetMessagesByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		s, err := m.summarize(ctx, cache, room, msgs, viewpoint(room, viewer.ID))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})
	return summaries, nil
}

// RoomSummariesFor is RoomSummaries keyed by user id.
func (m *Manager) RoomSummariesFor(ctx context.Context, viewerID string) ([]domain.RoomSummary, error) {
	viewer, err := m.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return m.RoomSummaries(ctx, viewer)
}

func (m *Manager) views(ctx context.Context, cache *userCache, msgs []domain.Message) ([]domain.MessageView, error) {
	views := make([]domain.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		name, err := cache.name(ctx, msg.SenderID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.MessageView{Message: msg, SenderName: name})
	}
	return views, nil
}

// History returns every message of a room in chronological order.
func (m *Manager) History(ctx context.Context, roomID string) ([]domain.MessageView, error) {
	if _, err := m.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	msgs, err := m.store.GetMessagesByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return m.views(ctx, newUserCache(m.store), msgs)
}

// HistoryPage returns one page of a room's history. Pages are 1-based and
// the page size is clamped to [1, MaxPageSize].
func (m *Manager) HistoryPage(ctx context.Context, roomID string, page, pageSize int) (Page, error) {
	page = max(page, 1)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageSize = lo.Clamp(pageSize, 1, MaxPageSize)

	if _, err := m.store.GetRoom(ctx, roomID); err != nil {
		return Page{}, err
	}
	msgs, total, err := m.store.GetMessagesPage(ctx, roomID, (page-1)*pageSize, pageSize)
	if err != nil {
		return Page{}, err
	}
	items, err := m.views(ctx, newUserCache(m.store), msgs)
	if err != nil {
		return Page{}, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Page{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	}, nil
}
