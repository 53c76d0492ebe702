package service

import (
	"context"
	"fmt"

	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

// GameInput carries the fields of a game create request.
type GameInput struct {
	Name        string
	Genre       string
	ReleaseYear int
	Platform    string
	Price       float64
}

// GamePatch carries optional game updates; nil fields are untouched.
type GamePatch struct {
	Name        *string
	Genre       *string
	ReleaseYear *int
	Platform    *string
	Price       *float64
}

// GameService describes catalog operations.
type GameService interface {
	List(ctx context.Context, page int, genre, name string) ([]domain.Game, PageInfo, error)
	Get(ctx context.Context, id int64) (*domain.Game, error)
	Create(ctx context.Context, input GameInput) (*domain.Game, error)
	Update(ctx context.Context, id int64, patch GamePatch) (*domain.Game, error)
	Delete(ctx context.Context, id int64) error
}

type gameService struct {
	games repository.GameRepository
}

func NewGameService(games repository.GameRepository) GameService {
	return &gameService{games: games}
}

func (s *gameService) List(ctx context.Context, page int, genre, name string) ([]domain.Game, PageInfo, error) {
	if page < 1 {
		return nil, PageInfo{}, ErrInvalidPage
	}

	var genreFilter domain.Genre
	if genre != "" {
		parsed, err := domain.ParseGenre(genre)
		if err != nil {
			return nil, PageInfo{}, fmt.Errorf("genre %w", repository.ErrNotFound)
		}
		genreFilter = parsed
	}

	games, total, err := s.games.List(ctx, genreFilter, name, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return games, pageInfo(page, total), nil
}

func (s *gameService) Get(ctx context.Context, id int64) (*domain.Game, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	return s.games.GetByID(ctx, id)
}

func (s *gameService) Create(ctx context.Context, input GameInput) (*domain.Game, error) {
	var details []string
	if input.Name == "" || len(input.Name) > 100 {
		details = append(details, "Name must be between 1 and 100 characters")
	}
	genre, err := domain.ParseGenre(input.Genre)
	if err != nil {
		details = append(details, "Invalid genre")
	}
	platform, err := domain.ParsePlatform(input.Platform)
	if err != nil {
		details = append(details, "Invalid platform")
	}
	if input.Price < 0 {
		details = append(details, "Price cannot be negative")
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	game := &domain.Game{
		Name:        input.Name,
		Genre:       genre,
		ReleaseYear: input.ReleaseYear,
		Platform:    platform,
		Price:       input.Price,
	}
	if _, err := s.games.Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *gameService) Update(ctx context.Context, id int64, patch GamePatch) (*domain.Game, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var details []string
	if patch.Name != nil {
		if *patch.Name == "" || len(*patch.Name) > 100 {
			details = append(details, "Name must be between 1 and 100 characters")
		} else {
			game.Name = *patch.Name
		}
	}
	if patch.Genre != nil {
		genre, err := domain.ParseGenre(*patch.Genre)
		if err != nil {
			details = append(details, "Invalid genre")
		} else {
			game.Genre = genre
		}
	}
	if patch.ReleaseYear != nil {
		game.ReleaseYear = *patch.ReleaseYear
	}
	if patch.Platform != nil {
		platform, err := domain.ParsePlatform(*patch.Platform)
		if err != nil {
			details = append(details, "Invalid platform")
		} else {
			game.Platform = platform
		}
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			details = append(details, "Price cannot be negative")
		} else {
			game.Price = *patch.Price
		}
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	if err := s.games.Update(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *gameService) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrInvalidID
	}
	return s.games.Delete(ctx, id)
}
