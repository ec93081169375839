package chat

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Status is the delivery state of a message. Values are ordered.
type Status uint8

const (
	StatusSent Status = iota
	StatusDelivered
	StatusRead
)

var statusNames = [...]string{"sent", "delivered", "read"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool { return s <= StatusRead }

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return StatusSent, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Advance applies the forward-only rule Sent -> Delivered -> Read. The
// requested status must be strictly later than the current one; skipping
// Delivered is allowed.
func Advance(current, requested Status) (Status, error) {
	if !current.Valid() || !requested.Valid() {
		return current, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, current, requested)
	}
	if requested <= current {
		return current, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requested)
	}
	return requested, nil
}

// Unread reports whether m counts as unread for viewerID.
func (m Message) Unread(viewerID string) bool {
	return m.SenderID != viewerID && m.Status != StatusRead
}

// UnreadCount counts the messages not sent by viewerID and not yet read.
func UnreadCount(messages []Message, viewerID string) int {
	return lo.CountBy(messages, func(m Message) bool {
		return m.Unread(viewerID)
	})
}
