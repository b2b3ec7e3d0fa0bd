package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/curatehq/curate/domain/user"
	"github.com/curatehq/curate/internal/database"
)

// UserStore implements user.Store using GORM.
type UserStore struct {
	database.Repository[user.User, UserModel]
}

// NewUserStore creates a new UserStore.
func NewUserStore(db database.Database) UserStore {
	return UserStore{
		Repository: database.NewRepository[user.User, UserModel](db, UserMapper{}, "user"),
	}
}

var _ user.Store = UserStore{}

// ByID returns a user by identifier.
func (s UserStore) ByID(ctx context.Context, id string) (user.User, error) {
	return s.FindOne(ctx, database.NewQuery().Equal("id", id))
}

// Create persists a new user.
func (s UserStore) Create(ctx context.Context, u user.User) error {
	model := s.Mapper().ToModel(u)
	result := s.DB(ctx).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("create user: %w", database.TranslateError(result.Error, "user"))
	}
	return nil
}

// SetShared toggles the public visibility flag.
func (s UserStore) SetShared(ctx context.Context, id string, shared bool) error {
	result := s.DB(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"shared":     shared,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("set shared: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user", database.ErrNotFound)
	}
	return nil
}
