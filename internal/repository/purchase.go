package repository

import (
	"context"

	"ludus-server/internal/domain"
)

// PurchaseRepository defines persistence operations for purchase records.
type PurchaseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, purchase *domain.Purchase) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	// List returns a page of purchases filtered by game and/or payment
	// method (zero values disable a filter), plus the total count.
	List(ctx context.Context, gameID int64, method domain.PaymentMethod, limit, offset int) ([]domain.Purchase, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error)
}
