package activity

import (
	"context"

	"cafepos/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT id::text, type, description, COALESCE(actor_id::text, ''), COALESCE(actor_name, ''), order_id::text, created_at
FROM activity_logs
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Description, &rec.ActorID, &rec.ActorName, &rec.OrderID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Append(ctx context.Context, record domain.ActivityRecord) error {
	const q = `
INSERT INTO activity_logs (type, description, actor_id, actor_name, order_id)
VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, ''), $5::uuid)
`
	_, err := r.pool.Exec(ctx, q, record.Type, record.Description, record.ActorID, record.ActorName, record.OrderID)
	return err
}
