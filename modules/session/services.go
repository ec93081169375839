package session

import (
	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
)

// Request-reply service names.
const (
	ServiceRoomSummaries = "room-summaries"
	ServiceHistoryPage   = "room-history-page"
	ServiceOnlineUsers   = "online-users"
)

// Failure carries a domain error across the service boundary.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func failureOf(err error) *Failure {
	return &Failure{Code: domain.Code(err), Message: err.Error()}
}

// Err rebuilds the domain error. A nil Failure is no error.
func (f *Failure) Err() error {
	if f == nil {
		return nil
	}
	return domain.FromCode(f.Code, f.Message)
}

type RoomSummariesRequest struct {
	ViewerID string `json:"viewerId"`
}

type RoomSummariesResponse struct {
	Rooms   []domain.RoomSummary `json:"rooms"`
	Failure *Failure             `json:"failure,omitempty"`
}

type HistoryPageRequest struct {
	RoomID   string `json:"roomId"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type HistoryPageResponse struct {
	Page    Page     `json:"page"`
	Failure *Failure `json:"failure,omitempty"`
}

type OnlineUsersRequest struct{}

type OnlineUsersResponse struct {
	UserIDs     []string `json:"userIds"`
	Connections int      `json:"connections"`
}
