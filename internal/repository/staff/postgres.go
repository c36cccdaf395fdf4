package staff

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

func (r *postgresRepo) GetByToken(ctx context.Context, token string) (*domain.Staff, error) {
	const q = `
SELECT id::text, name, email, role, token, created_at
FROM staff
WHERE token = $1
`
	var s domain.Staff
	if err := r.pool.QueryRow(ctx, q, token).Scan(&s.ID, &s.Name, &s.Email, &s.Role, &s.Token, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Staff, error) {
	const q = `
SELECT s.id::text, s.name, s.email, s.role, s.created_at,
       COUNT(rc.code) FILTER (WHERE NOT rc.used)::int
FROM staff s
LEFT JOIN referral_codes rc ON rc.issued_by = s.id
GROUP BY s.id, s.name, s.email, s.role, s.created_at
ORDER BY s.name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("staff repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Role, &s.CreatedAt, &s.ReferralCodes); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) CreateReferralCode(ctx context.Context, code domain.ReferralCode) error {
	const q = `
INSERT INTO referral_codes (code, role, issued_by)
VALUES ($1, $2, $3)
`
	if _, err := r.pool.Exec(ctx, q, code.Code, code.Role, code.IssuedBy); err != nil {
		r.logger.Printf("staff repo: create referral code error=%v", err)
		return err
	}
	return nil
}

func (r *postgresRepo) Register(ctx context.Context, in RegisterInput) (*domain.Staff, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var role string
	err = tx.QueryRow(ctx, `SELECT role FROM referral_codes WHERE code = $1 AND NOT used FOR UPDATE`, in.Code).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReferralInvalid
		}
		return nil, err
	}

	var s domain.Staff
	const insert = `
INSERT INTO staff (name, email, role, token)
VALUES ($1, $2, $3, $4)
RETURNING id::text, name, email, role, token, created_at
`
	if err := tx.QueryRow(ctx, insert, in.Name, in.Email, role, in.Token).
		Scan(&s.ID, &s.Name, &s.Email, &s.Role, &s.Token, &s.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE referral_codes SET used = true, used_by = $1 WHERE code = $2`, s.ID, in.Code); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("staff repo: registered id=%s role=%s", s.ID, s.Role)
	return &s, nil
}
