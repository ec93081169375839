package session

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
	"github.com/Greenfield-Taster/ChatService/modules/store"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

type frame struct {
	Event   string
	Payload any
}

// fakeHub is a synchronous Broadcaster that records what each connection receives.
type fakeHub struct {
	mu     sync.Mutex
	subs   map[string]map[broadcast.GroupKey]struct{}
	frames map[string][]frame
}

func newFakeHub() *fakeHub {
	return &fakeHub{
		subs:   make(map[string]map[broadcast.GroupKey]struct{}),
		frames: make(map[string][]frame),
	}
}

func (h *fakeHub) Subscribe(connID string, key broadcast.GroupKey) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[connID]
	if !ok {
		set = make(map[broadcast.GroupKey]struct{})
		h.subs[connID] = set
	}
	set[key] = struct{}{}
	return true
}

func (h *fakeHub) Unsubscribe(connID string, key broadcast.GroupKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[connID], key)
}

func (h *fakeHub) Unregister(connID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.subs[connID]
	delete(h.subs, connID)
	return ok
}

func (h *fakeHub) CloseGroup(key broadcast.GroupKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		if _, ok := set[key]; ok {
			delete(set, key)
			n++
		}
	}
	return n
}

func (h *fakeHub) Broadcast(key broadcast.GroupKey, event string, payload any) int {
	return h.BroadcastGroups(event, payload, key)
}

func (h *fakeHub) BroadcastGroups(event string, payload any, keys ...broadcast.GroupKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for connID, set := range h.subs {
		for _, key := range keys {
			if _, ok := set[key]; ok {
				h.frames[connID] = append(h.frames[connID], frame{Event: event, Payload: payload})
				n++
				break
			}
		}
	}
	return n
}

func (h *fakeHub) Send(connID, event string, payload any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames[connID] = append(h.frames[connID], frame{Event: event, Payload: payload})
	return true
}

func (h *fakeHub) subscribed(connID string, key broadcast.GroupKey) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.subs[connID][key]
	return ok
}

func (h *fakeHub) subscriptionCount(connID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[connID])
}

func (h *fakeHub) events(connID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.frames[connID]))
	for _, f := range h.frames[connID] {
		out = append(out, f.Event)
	}
	return out
}

// last returns the payload of the most recent event of the given name.
func (h *fakeHub) last(connID, event string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	frames := h.frames[connID]
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Event == event {
			return frames[i].Payload, true
		}
	}
	return nil, false
}

func (h *fakeHub) reset(connIDs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range connIDs {
		delete(h.frames, id)
	}
}

type testEnv struct {
	store  *store.Store
	hub    *fakeHub
	mgr    *Manager
	admin  domain.User
	admin2 domain.User
	alice  domain.User
	bob    domain.User
}

// newTestEnv wires a manager to an in-memory store holding two admins and
// two regular users. The first admin registered earlier than the second.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(":memory:", false)
	require.NoError(t, err)
	s := store.New(db)
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	upsert := func(u domain.User) domain.User {
		stored, err := s.UpsertUser(ctx, u)
		require.NoError(t, err)
		return stored
	}

	hub := newFakeHub()
	env := &testEnv{
		store:  s,
		hub:    hub,
		mgr:    NewManager(s, hub, &mockLogger{}),
		admin:  upsert(domain.User{Email: "a@example.com", Name: "Anna", Role: domain.RoleAdmin, CreatedAt: base}),
		admin2: upsert(domain.User{Email: "z@example.com", Name: "Zed", Role: domain.RoleAdmin, CreatedAt: base.Add(time.Hour)}),
		alice:  upsert(domain.User{Email: "alice@example.com", Name: "Alice", CreatedAt: base}),
		bob:    upsert(domain.User{Email: "bob@example.com", Name: "Bob", CreatedAt: base}),
	}
	return env
}

// connect authenticates connID as user and clears what it received.
func (e *testEnv) connect(t *testing.T, connID string, user domain.User) {
	t.Helper()
	require.NoError(t, e.mgr.ConnectUser(context.Background(), connID, user.ID))
	e.hub.reset(connID)
}

// openRoom creates the support room for user through connID, which must be
// connected as user.
func (e *testEnv) openRoom(t *testing.T, connID string, user domain.User) domain.Room {
	t.Helper()
	room, err := e.mgr.CreateRoom(context.Background(), connID, user.ID)
	require.NoError(t, err)
	return room
}
