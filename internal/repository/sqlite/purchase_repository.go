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

const createPurchasesTable = `
CREATE TABLE IF NOT EXISTS purchases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	game_id INTEGER NOT NULL REFERENCES games(id),
	price REAL NOT NULL,
	payment_method TEXT NOT NULL,
	purchase_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL
);
`

type PurchaseRepository struct {
	db *sql.DB
}

func NewPurchaseRepository(db *sql.DB) repository.PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPurchasesTable); err != nil {
		return fmt.Errorf("create purchases table: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) (int64, error) {
	purchase.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO purchases (user_id, game_id, price, payment_method, purchase_date, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		purchase.UserID,
		purchase.GameID,
		purchase.Price,
		string(purchase.PaymentMethod),
		purchase.PurchaseDate,
		purchase.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert purchase: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("purchase last insert id: %w", err)
	}
	purchase.ID = id
	return id, nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, game_id, price, payment_method, purchase_date, created_at
FROM purchases
WHERE id = ?`,
		id,
	)
	return scanPurchase(row)
}

func (r *PurchaseRepository) List(ctx context.Context, gameID int64, method domain.PaymentMethod, limit, offset int) ([]domain.Purchase, int64, error) {
	where := "WHERE 1=1"
	args := []any{}
	if gameID > 0 {
		where += " AND game_id = ?"
		args = append(args, gameID)
	}
	if method != "" {
		where += " AND payment_method = ?"
		args = append(args, string(method))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM purchases "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, game_id, price, payment_method, purchase_date, created_at
FROM purchases `+where+`
ORDER BY id
LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	purchases, err := collectPurchases(rows)
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, game_id, price, payment_method, purchase_date, created_at
FROM purchases
WHERE user_id = ?
ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases by user: %w", err)
	}
	defer rows.Close()

	return collectPurchases(rows)
}

func collectPurchases(rows *sql.Rows) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, *purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}

func scanPurchase(row interface {
	Scan(dest ...any) error
}) (*domain.Purchase, error) {
	var purchase domain.Purchase
	var method string
	if err := row.Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.GameID,
		&purchase.Price,
		&method,
		&purchase.PurchaseDate,
		&purchase.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("purchase %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	purchase.PaymentMethod = domain.PaymentMethod(method)
	return &purchase, nil
}
