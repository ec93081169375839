package session

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// QueryPort is the read side of the session module as seen by other modules.
type QueryPort interface {
	RoomSummaries(ctx context.Context, viewerID string) ([]domain.RoomSummary, error)
	HistoryPage(ctx context.Context, roomID string, page, pageSize int) (Page, error)
	OnlineUsers(ctx context.Context) (OnlineUsersResponse, error)
}

// queryAdapter implements QueryPort over the session module's service container.
type queryAdapter struct {
	container mono.ServiceContainer
}

// NewQueryAdapter creates an adapter for the session services.
func NewQueryAdapter(container mono.ServiceContainer) QueryPort {
	if container == nil {
		panic("session: ServiceContainer is nil")
	}
	return &queryAdapter{container: container}
}

func (a *queryAdapter) RoomSummaries(ctx context.Context, viewerID string) ([]domain.RoomSummary, error) {
	req := RoomSummariesRequest{ViewerID: viewerID}
	var resp RoomSummariesResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceRoomSummaries,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, callFailed(ServiceRoomSummaries, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

func (a *queryAdapter) HistoryPage(ctx context.Context, roomID string, page, pageSize int) (Page, error) {
	req := HistoryPageRequest{RoomID: roomID, Page: page, PageSize: pageSize}
	var resp HistoryPageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceHistoryPage,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return Page{}, callFailed(ServiceHistoryPage, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return Page{}, err
	}
	return resp.Page, nil
}

func (a *queryAdapter) OnlineUsers(ctx context.Context) (OnlineUsersResponse, error) {
	req := OnlineUsersRequest{}
	var resp OnlineUsersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceOnlineUsers,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return OnlineUsersResponse{}, callFailed(ServiceOnlineUsers, err)
	}
	return resp, nil
}

func callFailed(service string, err error) error {
	return fmt.Errorf("%w: %s service call failed: %w", domain.ErrStoreUnavailable, service, err)
}
