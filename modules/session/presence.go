package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/Greenfield-Taster/ChatService/modules/broadcast"
)

// UserLookup resolves user ids.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// Presence maps live connections to users. A single lock guards all of it;
// contention is bounded by connection churn, not message volume.
type Presence struct {
	mu     sync.Mutex
	conns  map[string]string              // connID -> userID
	users  map[string]map[string]struct{} // userID -> connIDs
	bound  map[string]string              // connID -> verified subject
	lookup UserLookup
	hub    Broadcaster
}

// NewPresence creates an empty registry.
func NewPresence(lookup UserLookup, hub Broadcaster) *Presence {
	return &Presence{
		conns:  make(map[string]string),
		users:  make(map[string]map[string]struct{}),
		bound:  make(map[string]string),
		lookup: lookup,
		hub:    hub,
	}
}

// Bind pins a connection to a verified identity. A later Register for any
// other user id on that connection is refused.
func (p *Presence) Bind(connID, subject string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bound[connID] = subject
}

// Register associates connID with userID and subscribes the connection to
// the user's personal group, and to the admins group for admins. Nothing is
// recorded when the user does not resolve.
func (p *Presence) Register(ctx context.Context, connID, userID string) (domain.User, error) {
	p.mu.Lock()
	subject, pinned := p.bound[connID]
	p.mu.Unlock()
	if pinned && subject != userID {
		return domain.User{}, fmt.Errorf("%w: connection is bound to another identity", domain.ErrForbidden)
	}

	user, err := p.lookup.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.conns[connID]; ok && prev != userID {
		p.dropLocked(connID, prev)
	}
	p.conns[connID] = userID
	set, ok := p.users[userID]
	if !ok {
		set = make(map[string]struct{})
		p.users[userID] = set
	}
	set[connID] = struct{}{}

	p.hub.Subscribe(connID, broadcast.UserGroup(userID))
	if user.Role.IsAdmin() {
		p.hub.Subscribe(connID, broadcast.AdminsGroup())
	} else {
		p.hub.Unsubscribe(connID, broadcast.AdminsGroup())
	}
	return user, nil
}

// Unbind forgets a connection's verified identity.
func (p *Presence) Unbind(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bound, connID)
}

// Unregister removes the connection. It returns the user it belonged to and
// how many other connections that user still has. Unknown ids are a no-op.
func (p *Presence) Unregister(connID string) (userID string, remaining int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok = p.conns[connID]
	if !ok {
		return "", 0, false
	}
	p.dropLocked(connID, userID)
	return userID, len(p.users[userID]), true
}

func (p *Presence) dropLocked(connID, userID string) {
	delete(p.conns, connID)
	if set, ok := p.users[userID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(p.users, userID)
		}
	}
	p.hub.Unsubscribe(connID, broadcast.UserGroup(userID))
	p.hub.Unsubscribe(connID, broadcast.AdminsGroup())
}

// Evict removes every connection of a user and returns their ids. The
// connections stay open but are no longer authenticated.
func (p *Presence) Evict(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.users[userID]))
	for id := range p.users[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p.dropLocked(id, userID)
	}
	return ids
}

// Lookup returns the user bound to a connection.
func (p *Presence) Lookup(connID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.conns[connID]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

// Connections returns the live connection ids of a user.
func (p *Presence) Connections(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.users[userID]))
	for id := range p.users[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsOnline reports whether the user has at least one live connection.
func (p *Presence) IsOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users[userID]) > 0
}

// OnlineUsers returns the ids of users with a live connection.
func (p *Presence) OnlineUsers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.users))
	for id := range p.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of authenticated connections.
func (p *Presence) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}
