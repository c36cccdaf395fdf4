package loyalty

import (
	"context"
	"errors"
	"io"
	"log"

	"cafepos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// SearchCustomers feeds the operator autocomplete: exact or partial name
// match, or exact card number match. Settlement never matches free text; it
// takes the id picked from these results.
func (r *postgresRepo) SearchCustomers(ctx context.Context, q string, limit int) ([]domain.LoyaltyCustomer, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	const query = `
SELECT id::text, name, card_number, points, created_at
FROM loyalty_customers
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR card_number = $1)
ORDER BY name ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, query, q, limit)
	if err != nil {
		r.logger.Printf("loyalty repo: search q=%q error=%v", q, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.LoyaltyCustomer
	for rows.Next() {
		var c domain.LoyaltyCustomer
		if err := rows.Scan(&c.ID, &c.Name, &c.CardNumber, &c.Points, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetCustomer(ctx context.Context, id string) (*domain.LoyaltyCustomer, error) {
	const q = `
SELECT id::text, name, card_number, points, created_at
FROM loyalty_customers
WHERE id = $1
`
	var c domain.LoyaltyCustomer
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.CardNumber, &c.Points, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) CreateCustomer(ctx context.Context, name, cardNumber string) (*domain.LoyaltyCustomer, error) {
	const q = `
INSERT INTO loyalty_customers (name, card_number, points)
VALUES ($1, $2, 0)
RETURNING id::text, name, card_number, points, created_at
`
	var c domain.LoyaltyCustomer
	if err := r.pool.QueryRow(ctx, q, name, cardNumber).Scan(&c.ID, &c.Name, &c.CardNumber, &c.Points, &c.CreatedAt); err != nil {
		r.logger.Printf("loyalty repo: enroll name=%q error=%v", name, err)
		return nil, err
	}
	r.logger.Printf("loyalty repo: enrolled id=%s card=%s", c.ID, c.CardNumber)
	return &c, nil
}

const rewardColumns = `id::text, name, COALESCE(description, ''), kind, percent, points_required, active, created_at`

func (r *postgresRepo) ListActiveRewards(ctx context.Context) ([]domain.Reward, error) {
	const q = `
SELECT ` + rewardColumns + `
FROM loyalty_rewards
WHERE active
ORDER BY points_required ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reward
	for rows.Next() {
		var rw domain.Reward
		if err := rows.Scan(&rw.ID, &rw.Name, &rw.Description, &rw.Kind, &rw.Percent, &rw.PointsRequired, &rw.Active, &rw.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetReward(ctx context.Context, id string) (*domain.Reward, error) {
	const q = `
SELECT ` + rewardColumns + `
FROM loyalty_rewards
WHERE id = $1 AND active
`
	var rw domain.Reward
	if err := r.pool.QueryRow(ctx, q, id).Scan(&rw.ID, &rw.Name, &rw.Description, &rw.Kind, &rw.Percent, &rw.PointsRequired, &rw.Active, &rw.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rw, nil
}

func (r *postgresRepo) CreateReward(ctx context.Context, reward domain.Reward) (*domain.Reward, error) {
	const q = `
INSERT INTO loyalty_rewards (name, description, kind, percent, points_required, active)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
RETURNING id::text, created_at
`
	if err := r.pool.QueryRow(ctx, q, reward.Name, reward.Description, reward.Kind, reward.Percent, reward.PointsRequired, reward.Active).
		Scan(&reward.ID, &reward.CreatedAt); err != nil {
		r.logger.Printf("loyalty repo: create reward name=%q error=%v", reward.Name, err)
		return nil, err
	}
	return &reward, nil
}

func (r *postgresRepo) History(ctx context.Context, customerID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT id::text, customer_id::text, COALESCE(customer_name, ''), order_id::text, points, type,
       reward_id::text, COALESCE(reward_name, ''), COALESCE(processed_by::text, ''), created_at
FROM loyalty_ledger
WHERE customer_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.CustomerName, &e.OrderID, &e.Points, &e.Type,
			&e.RewardID, &e.RewardName, &e.ProcessedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
