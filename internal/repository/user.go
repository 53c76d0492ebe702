package repository

import (
	"context"
	"errors"

	"ludus-server/internal/domain"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("already exists")
)

// UserRepository defines persistence operations for User entities.
// Lookups return soft-deleted rows too; callers decide whether an
// inactive account is visible for their purpose.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// ListActive returns a page of active users optionally filtered by
	// name substring, plus the total count of matching rows.
	ListActive(ctx context.Context, name string, limit, offset int) ([]domain.User, int64, error)
}
