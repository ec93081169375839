// Package activity mirrors chat activity into Redis so that other services
// can read presence and room counters without talking to the chat process.
package activity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Mirror writes and reads the activity keys.
type Mirror struct {
	client *redis.Client
	prefix string
}

// NewMirror creates a mirror writing keys under prefix.
func NewMirror(client *redis.Client, prefix string) *Mirror {
	return &Mirror{client: client, prefix: prefix}
}

func (m *Mirror) onlineKey() string      { return m.prefix + "presence:online" }
func (m *Mirror) connectionsKey() string { return m.prefix + "presence:connections" }
func (m *Mirror) lastSeenKey() string    { return m.prefix + "presence:last_seen" }

func (m *Mirror) roomKey(roomID, field string) string {
	return m.prefix + "room:" + roomID + ":" + field
}

// SetPresence records how many connections a user holds. Zero removes the
// user from the online set.
func (m *Mirror) SetPresence(ctx context.Context, userID string, connections int, at time.Time) error {
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if connections > 0 {
			pipe.SAdd(ctx, m.onlineKey(), userID)
			pipe.HSet(ctx, m.connectionsKey(), userID, connections)
		} else {
			pipe.SRem(ctx, m.onlineKey(), userID)
			pipe.HDel(ctx, m.connectionsKey(), userID)
		}
		pipe.HSet(ctx, m.lastSeenKey(), userID, at.Unix())
		return nil
	})
	if err != nil {
		return fmt.Errorf("activity presence error: %w", err)
	}
	return nil
}

// RecordMessage bumps a room's message counter and last activity time.
func (m *Mirror) RecordMessage(ctx context.Context, roomID string, at time.Time) error {
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, m.roomKey(roomID, "messages"))
		pipe.Set(ctx, m.roomKey(roomID, "last_activity"), at.Unix(), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("activity message error: %w", err)
	}
	return nil
}

// RecordStatus counts status transitions per target status in a room.
func (m *Mirror) RecordStatus(ctx context.Context, roomID, status string, count int, at time.Time) error {
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, m.roomKey(roomID, "status"), status, int64(count))
		pipe.Set(ctx, m.roomKey(roomID, "last_activity"), at.Unix(), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("activity status error: %w", err)
	}
	return nil
}

// ForgetRoom removes every key of a room.
func (m *Mirror) ForgetRoom(ctx context.Context, roomID string) error {
	err := m.client.Del(ctx,
		m.roomKey(roomID, "messages"),
		m.roomKey(roomID, "status"),
		m.roomKey(roomID, "last_activity"),
	).Err()
	if err != nil {
		return fmt.Errorf("activity delete error: %w", err)
	}
	return nil
}

// OnlineUsers returns the mirrored online user ids.
func (m *Mirror) OnlineUsers(ctx context.Context) ([]string, error) {
	users, err := m.client.SMembers(ctx, m.onlineKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("activity online error: %w", err)
	}
	return users, nil
}

// Connections returns the mirrored connection count of a user.
func (m *Mirror) Connections(ctx context.Context, userID string) (int, error) {
	n, err := m.client.HGet(ctx, m.connectionsKey(), userID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("activity connections error: %w", err)
	}
	return n, nil
}

// RoomMessageCount returns the mirrored number of messages sent in a room.
func (m *Mirror) RoomMessageCount(ctx context.Context, roomID string) (int64, error) {
	n, err := m.client.Get(ctx, m.roomKey(roomID, "messages")).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("activity count error: %w", err)
	}
	return n, nil
}

// StatusCounts returns the mirrored status transition counts of a room.
func (m *Mirror) StatusCounts(ctx context.Context, roomID string) (map[string]int64, error) {
	raw, err := m.client.HGetAll(ctx, m.roomKey(roomID, "status")).Result()
	if err != nil {
		return nil, fmt.Errorf("activity status error: %w", err)
	}
	counts := make(map[string]int64, len(raw))
	for status, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("activity status error: %w", err)
		}
		counts[status] = n
	}
	return counts, nil
}

// LastActivity returns the last mirrored activity time of a room, or the
// zero time if none was recorded.
func (m *Mirror) LastActivity(ctx context.Context, roomID string) (time.Time, error) {
	sec, err := m.client.Get(ctx, m.roomKey(roomID, "last_activity")).Int64()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("activity last activity error: %w", err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// Ping checks if the Redis connection is healthy.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}
