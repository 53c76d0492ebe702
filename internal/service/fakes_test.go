package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

// In-memory repositories mirroring the sqlite implementations' error
// contracts, so service tests run without a database.

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) Init(context.Context) error { return nil }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return 0, fmt.Errorf("user %w", repository.ErrDuplicate)
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	for _, existing := range r.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return fmt.Errorf("user %w", repository.ErrDuplicate)
		}
	}
	user.UpdatedAt = time.Now().UTC()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) ListActive(_ context.Context, name string, limit, offset int) ([]domain.User, int64, error) {
	var matched []domain.User
	for _, user := range r.users {
		if !user.Active {
			continue
		}
		if name != "" && !strings.Contains(user.Name, name) {
			continue
		}
		matched = append(matched, *user)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type fakeGameRepo struct {
	games  map[int64]*domain.Game
	nextID int64
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: map[int64]*domain.Game{}, nextID: 1}
}

func (r *fakeGameRepo) Init(context.Context) error { return nil }

func (r *fakeGameRepo) Create(_ context.Context, game *domain.Game) (int64, error) {
	game.ID = r.nextID
	r.nextID++
	clone := *game
	r.games[game.ID] = &clone
	return game.ID, nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id int64) (*domain.Game, error) {
	game, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("game %w", repository.ErrNotFound)
	}
	clone := *game
	return &clone, nil
}

func (r *fakeGameRepo) Update(_ context.Context, game *domain.Game) error {
	if _, ok := r.games[game.ID]; !ok {
		return fmt.Errorf("game %w", repository.ErrNotFound)
	}
	clone := *game
	r.games[game.ID] = &clone
	return nil
}

func (r *fakeGameRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.games[id]; !ok {
		return fmt.Errorf("game %w", repository.ErrNotFound)
	}
	delete(r.games, id)
	return nil
}

func (r *fakeGameRepo) List(_ context.Context, genre domain.Genre, name string, limit, offset int) ([]domain.Game, int64, error) {
	var matched []domain.Game
	for _, game := range r.games {
		if genre != "" && game.Genre != genre {
			continue
		}
		if name != "" && !strings.Contains(game.Name, name) {
			continue
		}
		matched = append(matched, *game)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type fakePurchaseRepo struct {
	purchases map[int64]*domain.Purchase
	nextID    int64
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: map[int64]*domain.Purchase{}, nextID: 1}
}

func (r *fakePurchaseRepo) Init(context.Context) error { return nil }

func (r *fakePurchaseRepo) Create(_ context.Context, purchase *domain.Purchase) (int64, error) {
	purchase.ID = r.nextID
	purchase.CreatedAt = time.Now().UTC()
	r.nextID++
	clone := *purchase
	r.purchases[purchase.ID] = &clone
	return purchase.ID, nil
}

func (r *fakePurchaseRepo) GetByID(_ context.Context, id int64) (*domain.Purchase, error) {
	purchase, ok := r.purchases[id]
	if !ok {
		return nil, fmt.Errorf("purchase %w", repository.ErrNotFound)
	}
	clone := *purchase
	return &clone, nil
}

func (r *fakePurchaseRepo) List(_ context.Context, gameID int64, method domain.PaymentMethod, limit, offset int) ([]domain.Purchase, int64, error) {
	var matched []domain.Purchase
	for _, purchase := range r.purchases {
		if gameID > 0 && purchase.GameID != gameID {
			continue
		}
		if method != "" && purchase.PaymentMethod != method {
			continue
		}
		matched = append(matched, *purchase)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakePurchaseRepo) ListByUser(_ context.Context, userID int64) ([]domain.Purchase, error) {
	var matched []domain.Purchase
	for _, purchase := range r.purchases {
		if purchase.UserID == userID {
			matched = append(matched, *purchase)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}
