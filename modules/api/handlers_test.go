package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
	"github.com/Greenfield-Taster/ChatService/modules/session"
	"github.com/Greenfield-Taster/ChatService/modules/store"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
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

// directQueries serves QueryPort from the manager without a service container.
type directQueries struct {
	manager *session.Manager
}

func (q directQueries) RoomSummaries(ctx context.Context, viewerID string) ([]domain.RoomSummary, error) {
	return q.manager.RoomSummariesFor(ctx, viewerID)
}

func (q directQueries) HistoryPage(ctx context.Context, roomID string, page, pageSize int) (session.Page, error) {
	return q.manager.HistoryPage(ctx, roomID, page, pageSize)
}

func (q directQueries) OnlineUsers(_ context.Context) (session.OnlineUsersResponse, error) {
	p := q.manager.Presence()
	return session.OnlineUsersResponse{UserIDs: p.OnlineUsers(), Connections: p.Count()}, nil
}

type fixture struct {
	module *APIModule
	app    *fiber.App
	store  *store.Store
	hub    *broadcast.Hub
	admin  domain.User
	bob    domain.User
}

func setupTestAPI(t *testing.T, cfg Config) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(":memory:", false)
	require.NoError(t, err)
	s := store.New(db)
	t.Cleanup(func() { _ = s.Close() })

	admin, err := s.UpsertUser(ctx, domain.User{Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	bob, err := s.UpsertUser(ctx, domain.User{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	logger := &mockLogger{}
	hub := broadcast.NewHub(logger)
	t.Cleanup(hub.Close)
	manager := session.NewManager(s, hub, logger)

	m := NewModule(cfg, logger)
	m.SetManager(manager)
	m.SetDirectory(s)
	m.SetHub(hub)
	m.queries = directQueries{manager: manager}
	require.NoError(t, m.checkDependencies())

	return &fixture{
		module: m,
		app:    m.newApp(),
		store:  s,
		hub:    hub,
		admin:  admin,
		bob:    bob,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestAPI_Users(t *testing.T) {
	f := setupTestAPI(t, DefaultConfig())

	tests := []struct {
		name       string
		body       UpsertUserRequest
		wantStatus int
		wantError  string
	}{
		{name: "create", body: UpsertUserRequest{Email: "carol@example.com", Name: "Carol"}, wantStatus: http.StatusOK},
		{name: "update role", body: UpsertUserRequest{Email: "carol@example.com", Name: "Carol", Role: "admin"}, wantStatus: http.StatusOK},
		{name: "bad email", body: UpsertUserRequest{Email: "nope", Name: "X"}, wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "missing name", body: UpsertUserRequest{Email: "x@example.com"}, wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "unknown role", body: UpsertUserRequest{Email: "x@example.com", Name: "X", Role: "boss"}, wantStatus: http.StatusBadRequest, wantError: "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := f.do(t, http.MethodPost, "/api/v1/users", tt.body)
			assert.Equal(t, tt.wantStatus, status, string(data))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[ErrorResponse](t, data).Error)
			}
		})
	}

	status, data := f.do(t, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[UsersResponse](t, data).Users, 3)

	status, data = f.do(t, http.MethodGet, "/api/v1/users/"+f.bob.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bob", decode[domain.User](t, data).Name)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/users/"+f.bob.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, data = f.do(t, http.MethodGet, "/api/v1/users/"+f.bob.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, domain.CodeNotFound, decode[ErrorResponse](t, data).Error)
}

func TestAPI_Rooms(t *testing.T) {
	f := setupTestAPI(t, DefaultConfig())

	status, data := f.do(t, http.MethodPost, "/api/v1/rooms", CreateRoomRequest{UserID: f.bob.ID})
	require.Equal(t, http.StatusCreated, status, string(data))
	room := decode[domain.Room](t, data)
	assert.Equal(t, f.admin.ID, room.AdminID)
	assert.Equal(t, "Support chat for Bob", room.Name)

	status, data = f.do(t, http.MethodPost, "/api/v1/rooms", CreateRoomRequest{UserID: f.bob.ID, AdminID: f.admin.ID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.CodeConflict, decode[ErrorResponse](t, data).Error)

	status, _ = f.do(t, http.MethodPost, "/api/v1/rooms", CreateRoomRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = f.do(t, http.MethodGet, "/api/v1/rooms/"+room.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, room.ID, decode[domain.Room](t, data).ID)

	status, data = f.do(t, http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[RoomsResponse](t, data).Rooms, 1)

	status, _ = f.do(t, http.MethodGet, "/api/v1/rooms/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/rooms/"+room.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = f.do(t, http.MethodDelete, "/api/v1/rooms/"+room.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_Messages(t *testing.T) {
	f := setupTestAPI(t, DefaultConfig())

	status, data := f.do(t, http.MethodPost, "/api/v1/rooms", CreateRoomRequest{UserID: f.bob.ID})
	require.Equal(t, http.StatusCreated, status)
	room := decode[domain.Room](t, data)

	status, data = f.do(t, http.MethodPost, "/api/v1/messages", SendMessageRequest{RoomID: room.ID, SenderID: f.bob.ID, Message: "hello"})
	require.Equal(t, http.StatusCreated, status, string(data))
	msg := decode[domain.Message](t, data)
	assert.Equal(t, domain.StatusSent, msg.Status)

	status, _ = f.do(t, http.MethodPost, "/api/v1/messages", SendMessageRequest{RoomID: room.ID, SenderID: "stranger", Message: "hi"})
	assert.Equal(t, http.StatusForbidden, status)

	status, data = f.do(t, http.MethodGet, "/api/v1/rooms/"+room.ID+"/messages", nil)
	require.Equal(t, http.StatusOK, status)
	history := decode[HistoryResponse](t, data)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "Bob", history.Messages[0].SenderName)

	status, data = f.do(t, http.MethodGet, "/api/v1/rooms/"+room.ID+"/messages/paged?page=1&pageSize=500", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[session.Page](t, data)
	assert.Equal(t, session.MaxPageSize, page.PageSize)
	assert.Equal(t, int64(1), page.TotalCount)

	status, data = f.do(t, http.MethodGet, "/api/v1/rooms/user/"+f.admin.ID, nil)
	require.Equal(t, http.StatusOK, status)
	summaries := decode[SummariesResponse](t, data).Rooms
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].UnreadCount)

	statusTests := []struct {
		name       string
		body       UpdateStatusRequest
		wantStatus int
		wantError  string
	}{
		{name: "sender", body: UpdateStatusRequest{Status: "read", UserID: f.bob.ID}, wantStatus: http.StatusForbidden, wantError: domain.CodeForbidden},
		{name: "unknown status", body: UpdateStatusRequest{Status: "bogus", UserID: f.admin.ID}, wantStatus: http.StatusBadRequest, wantError: domain.CodeInvalidStatus},
		{name: "delivered", body: UpdateStatusRequest{Status: "delivered", UserID: f.admin.ID}, wantStatus: http.StatusOK},
		{name: "read", body: UpdateStatusRequest{Status: "Read", UserID: f.admin.ID}, wantStatus: http.StatusOK},
		{name: "backwards", body: UpdateStatusRequest{Status: "delivered", UserID: f.admin.ID}, wantStatus: http.StatusBadRequest, wantError: domain.CodeInvalidTransition},
	}
	for _, tt := range statusTests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := f.do(t, http.MethodPut, "/api/v1/messages/"+msg.ID+"/status", tt.body)
			assert.Equal(t, tt.wantStatus, status, string(data))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[ErrorResponse](t, data).Error)
			}
		})
	}

	status, data = f.do(t, http.MethodGet, "/api/v1/messages/"+msg.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StatusRead, decode[domain.Message](t, data).Status)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/messages/"+msg.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = f.do(t, http.MethodGet, "/api/v1/messages/"+msg.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_BulkStatus(t *testing.T) {
	f := setupTestAPI(t, DefaultConfig())

	status, data := f.do(t, http.MethodPost, "/api/v1/rooms", CreateRoomRequest{UserID: f.bob.ID})
	require.Equal(t, http.StatusCreated, status)
	room := decode[domain.Room](t, data)
	for _, body := range []string{"one", "two"} {
		status, _ := f.do(t, http.MethodPost, "/api/v1/messages", SendMessageRequest{RoomID: room.ID, SenderID: f.bob.ID, Message: body})
		require.Equal(t, http.StatusCreated, status)
	}

	path := "/api/v1/rooms/" + room.ID + "/messages/status"
	status, data = f.do(t, http.MethodPut, path, UpdateStatusRequest{Status: "delivered", UserID: f.admin.ID})
	require.Equal(t, http.StatusOK, status, string(data))
	resp := decode[StatusUpdateResponse](t, data)
	assert.Len(t, resp.MessageIDs, 2)
	assert.Equal(t, domain.StatusDelivered, resp.Status)

	status, data = f.do(t, http.MethodPut, path, UpdateStatusRequest{Status: "delivered", UserID: f.admin.ID})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[StatusUpdateResponse](t, data).MessageIDs)

	status, _ = f.do(t, http.MethodPut, path, UpdateStatusRequest{Status: "sent", UserID: f.admin.ID})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodPut, path, UpdateStatusRequest{Status: "read"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_Health(t *testing.T) {
	f := setupTestAPI(t, DefaultConfig())

	status, data := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", decode[HealthResponse](t, data).Status)

	status, data = f.do(t, http.MethodGet, "/api/v1/presence", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[OnlineResponse](t, data).UserIDs)

	status, _ = f.do(t, http.MethodGet, "/api/v1/activity/online", nil)
	assert.Equal(t, http.StatusNotFound, status, "activity routes need the activity module")
}

func TestAPI_WebSocketGuard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JWTSecret = "test-secret"
	f := setupTestAPI(t, cfg)

	status, _ := f.do(t, http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusUpgradeRequired, status)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.CodeNotFound, http.StatusNotFound},
		{domain.CodeForbidden, http.StatusForbidden},
		{domain.CodeUnauthenticated, http.StatusUnauthorized},
		{domain.CodeInvalidStatus, http.StatusBadRequest},
		{domain.CodeInvalidTransition, http.StatusBadRequest},
		{domain.CodeBadRequest, http.StatusBadRequest},
		{domain.CodeConflict, http.StatusConflict},
		{domain.CodeRateLimited, http.StatusTooManyRequests},
		{domain.CodeStoreUnavailable, http.StatusServiceUnavailable},
		{domain.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.code))
		})
	}
}
