package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
)

// Realtime call names.
const (
	CallConnectUser        = "ConnectUser"
	CallSendMessage        = "SendMessage"
	CallCreateRoom         = "CreateRoom"
	CallJoinRoom           = "JoinRoom"
	CallLeaveRoom          = "LeaveRoom"
	CallGetAllChats        = "GetAllChats"
	CallSendTypingStatus   = "SendTypingStatus"
	CallMarkMessagesStatus = "MarkMessagesStatus"
)

// Call is a client frame: a call name with positional JSON arguments.
type Call struct {
	Name string            `json:"call"`
	Args []json.RawMessage `json:"args"`
}

// bind decodes the positional arguments into dst. The argument count must match.
func (c Call) bind(dst ...any) error {
	if len(c.Args) != len(dst) {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", domain.ErrInvalidInput, c.Name, len(dst), len(c.Args))
	}
	for i, raw := range c.Args {
		if err := json.Unmarshal(raw, dst[i]); err != nil {
			if errors.Is(err, domain.ErrInvalidStatus) {
				return fmt.Errorf("%s argument %d: %w", c.Name, i+1, err)
			}
			return fmt.Errorf("%w: %s argument %d: %v", domain.ErrInvalidInput, c.Name, i+1, err)
		}
	}
	return nil
}

// Invoke decodes and dispatches a call from connID. A failed call results in
// one Error event to the caller; the error is also returned.
func (m *Manager) Invoke(ctx context.Context, connID string, call Call) error {
	err := m.dispatch(ctx, connID, call)
	if err != nil {
		m.ReportError(connID, call.Name, err)
	}
	return err
}

func (m *Manager) dispatch(ctx context.Context, connID string, call Call) error {
	switch call.Name {
	case CallConnectUser:
		var userID string
		if err := call.bind(&userID); err != nil {
			return err
		}
		return m.ConnectUser(ctx, connID, userID)

	case CallSendMessage:
		var roomID, body string
		if err := call.bind(&roomID, &body); err != nil {
			return err
		}
		_, err := m.SendMessage(ctx, connID, roomID, body)
		return err

	case CallCreateRoom:
		var target string
		if err := call.bind(&target); err != nil {
			return err
		}
		_, err := m.CreateRoom(ctx, connID, target)
		return err

	case CallJoinRoom:
		var roomID string
		if err := call.bind(&roomID); err != nil {
			return err
		}
		return m.JoinRoom(ctx, connID, roomID)

	case CallLeaveRoom:
		var roomID string
		if err := call.bind(&roomID); err != nil {
			return err
		}
		return m.LeaveRoom(ctx, connID, roomID)

	case CallGetAllChats:
		if err := call.bind(); err != nil {
			return err
		}
		return m.GetAllChats(ctx, connID)

	case CallSendTypingStatus:
		var (
			roomID   string
			isTyping bool
		)
		if err := call.bind(&roomID, &isTyping); err != nil {
			return err
		}
		return m.SendTyping(ctx, connID, roomID, isTyping)

	case CallMarkMessagesStatus:
		var roomID string
		var status domain.Status
		if err := call.bind(&roomID, &status); err != nil {
			return err
		}
		_, err := m.MarkMessagesStatus(ctx, connID, roomID, status)
		return err

	default:
		return fmt.Errorf("%w: unknown call %q", domain.ErrInvalidInput, call.Name)
	}
}

// ReportError sends an Error event for a failed call to connID only.
func (m *Manager) ReportError(connID, call string, err error) {
	code := domain.Code(err)
	msg := err.Error()

	switch code {
	case domain.CodeStoreUnavailable, domain.CodeInternal:
		m.logger.Error("Call failed", "connID", connID, "call", call, "code", code, "error", err)
		msg = "the chat service is temporarily unavailable"
	default:
		m.logger.Debug("Call rejected", "connID", connID, "call", call, "code", code, "error", err)
	}

	m.hub.Send(connID, EventError, ErrorPayload{Call: call, Code: code, Message: msg})
}
