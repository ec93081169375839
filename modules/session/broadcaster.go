package session

import "github.com/Greenfield-Taster/ChatService/modules/broadcast"

// Broadcaster is the fan-out side used by the manager. *broadcast.Hub implements it.
type Broadcaster interface {
	Subscribe(connID string, key broadcast.GroupKey) bool
	Unsubscribe(connID string, key broadcast.GroupKey)
	Unregister(connID string) bool
	CloseGroup(key broadcast.GroupKey) int
	Broadcast(key broadcast.GroupKey, event string, payload any) int
	BroadcastGroups(event string, payload any, keys ...broadcast.GroupKey) int
	Send(connID, event string, payload any) bool
}

var _ Broadcaster = (*broadcast.Hub)(nil)
