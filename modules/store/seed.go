package store

import (
	"context"
	"fmt"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
)

// DemoUsers is the set of users written by the seed command.
var DemoUsers = []domain.User{
	{Email: "support@example.com", Name: "Support", Nickname: "support", Role: domain.RoleAdmin},
	{Email: "ops@example.com", Name: "Operations", Nickname: "ops", Role: domain.RoleAdmin},
	{Email: "alice@example.com", Name: "Alice", Role: domain.RoleUser},
	{Email: "bob@example.com", Name: "Bob", Role: domain.RoleUser},
}

// Seed upserts users by email and returns the stored versions.
func (s *Store) Seed(ctx context.Context, users []domain.User) ([]domain.User, error) {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		stored, err := s.UpsertUser(ctx, u)
		if err != nil {
			return out, fmt.Errorf("failed to seed %s: %w", u.Email, err)
		}
		out = append(out, stored)
	}
	return out, nil
}
