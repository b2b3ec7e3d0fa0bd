package user

import "context"

// Store defines persistence operations for users.
type Store interface {
	// ByID returns a user by identifier.
	ByID(ctx context.Context, id string) (User, error)

	// Create persists a new user.
	Create(ctx context.Context, u User) error

	// SetShared toggles the public visibility flag.
	SetShared(ctx context.Context, id string, shared bool) error
}
