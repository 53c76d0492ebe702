package repository

import (
	"context"

	"ludus-server/internal/domain"
)

// GameRepository defines persistence operations for catalog entries.
type GameRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, game *domain.Game) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Game, error)
	Update(ctx context.Context, game *domain.Game) error
	Delete(ctx context.Context, id int64) error
	// List returns a page of games filtered by genre and/or name
	// substring (zero values disable a filter), plus the total count.
	List(ctx context.Context, genre domain.Genre, name string, limit, offset int) ([]domain.Game, int64, error)
}
