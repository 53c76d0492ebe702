package service

import (
	"context"
	"fmt"
	"time"

	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

// PurchaseInput carries the fields of a purchase create request. The
// client never supplies a price; it is read from the catalog.
type PurchaseInput struct {
	UserID        int64
	GameID        int64
	PaymentMethod string
}

// PurchaseService describes purchase record operations.
type PurchaseService interface {
	Create(ctx context.Context, input PurchaseInput) (*domain.Purchase, error)
	Get(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context, page int, gameID int64, method string) ([]domain.Purchase, PageInfo, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	users     repository.UserRepository
	games     repository.GameRepository
}

func NewPurchaseService(purchases repository.PurchaseRepository, users repository.UserRepository, games repository.GameRepository) PurchaseService {
	return &purchaseService{purchases: purchases, users: users, games: games}
}

func (s *purchaseService) Create(ctx context.Context, input PurchaseInput) (*domain.Purchase, error) {
	if input.UserID < 1 || input.GameID < 1 {
		return nil, ErrInvalidID
	}
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, &ValidationError{Details: []string{"Invalid payment method"}}
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	game, err := s.games.GetByID(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		UserID:        user.ID,
		GameID:        game.ID,
		Price:         game.Price,
		PaymentMethod: method,
		PurchaseDate:  time.Now().UTC().Truncate(24 * time.Hour),
	}
	if _, err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *purchaseService) Get(ctx context.Context, id int64) (*domain.Purchase, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	return s.purchases.GetByID(ctx, id)
}

func (s *purchaseService) List(ctx context.Context, page int, gameID int64, method string) ([]domain.Purchase, PageInfo, error) {
	if page < 1 {
		return nil, PageInfo{}, ErrInvalidPage
	}
	if gameID < 0 {
		return nil, PageInfo{}, ErrInvalidID
	}

	var methodFilter domain.PaymentMethod
	if method != "" {
		parsed, err := domain.ParsePaymentMethod(method)
		if err != nil {
			return nil, PageInfo{}, fmt.Errorf("payment method %w", repository.ErrNotFound)
		}
		methodFilter = parsed
	}

	purchases, total, err := s.purchases.List(ctx, gameID, methodFilter, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return purchases, pageInfo(page, total), nil
}

func (s *purchaseService) ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	if userID < 1 {
		return nil, ErrInvalidID
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, fmt.Errorf("purchases for user %d %w", userID, repository.ErrNotFound)
	}
	return purchases, nil
}
