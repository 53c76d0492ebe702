package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	genre TEXT NOT NULL,
	release_year INTEGER NOT NULL,
	platform TEXT NOT NULL,
	price REAL NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGamesTable); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) (int64, error) {
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO games (name, genre, release_year, platform, price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.Name,
		string(game.Genre),
		game.ReleaseYear,
		string(game.Platform),
		game.Price,
		game.CreatedAt,
		game.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("game last insert id: %w", err)
	}
	game.ID = id
	return id, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, genre, release_year, platform, price, created_at, updated_at
FROM games
WHERE id = ?`,
		id,
	)
	return scanGame(row)
}

func (r *GameRepository) Update(ctx context.Context, game *domain.Game) error {
	game.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE games
SET name = ?, genre = ?, release_year = ?, platform = ?, price = ?, updated_at = ?
WHERE id = ?`,
		game.Name,
		string(game.Genre),
		game.ReleaseYear,
		string(game.Platform),
		game.Price,
		game.UpdatedAt,
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %w", repository.ErrNotFound)
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %w", repository.ErrNotFound)
	}
	return nil
}

func (r *GameRepository) List(ctx context.Context, genre domain.Genre, name string, limit, offset int) ([]domain.Game, int64, error) {
	where := "WHERE 1=1"
	args := []any{}
	if genre != "" {
		where += " AND genre = ?"
		args = append(args, string(genre))
	}
	if name != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, genre, release_year, platform, price, created_at, updated_at
FROM games `+where+`
ORDER BY id
LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, 0, err
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate games: %w", err)
	}
	return games, total, nil
}

func scanGame(row interface {
	Scan(dest ...any) error
}) (*domain.Game, error) {
	var game domain.Game
	var genre, platform string
	if err := row.Scan(
		&game.ID,
		&game.Name,
		&genre,
		&game.ReleaseYear,
		&platform,
		&game.Price,
		&game.CreatedAt,
		&game.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	game.Genre = domain.Genre(genre)
	game.Platform = domain.Platform(platform)
	return &game, nil
}
