package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

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

func (r *postgresRepo) Settle(ctx context.Context, in SettleInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o := in.Order
	customerID := o.CustomerID

	const insertOrder = `
INSERT INTO orders (customer_id, customer_name, paid_subtotal, discount_applied, total,
                    points_earned, points_deducted, reward_used, status, notes, created_by, created_by_name)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), 'pending', NULLIF($9, ''), $10, $11)
RETURNING id::text, created_at
`
	if err := tx.QueryRow(ctx, insertOrder,
		customerID,
		o.CustomerName,
		o.PaidSubtotal,
		o.DiscountApplied,
		o.Total,
		o.PointsEarned,
		o.PointsDeducted,
		o.RewardUsed,
		o.Notes,
		in.Actor.ID,
		in.Actor.DisplayName,
	).Scan(&o.ID, &o.CreatedAt); err != nil {
		r.logger.Printf("order repo: settle insert error=%v", err)
		return nil, err
	}
	o.Status = domain.OrderPending

	const insertItem = `
INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, is_reward, reward_id, position)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8)
`
	for i, item := range o.Items {
		if _, err := tx.Exec(ctx, insertItem,
			o.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.IsReward, item.RewardID, i,
		); err != nil {
			return nil, err
		}
	}

	// Relative stock decrements; reward lines do not touch stock. The guard
	// re-checks the balance inside the transaction so concurrent orders
	// compose without overdrawing.
	const decrementStock = `
UPDATE products
SET stock = stock - $1
WHERE id = $2::uuid AND stock >= $1
`
	for _, item := range o.Items {
		if item.IsReward {
			continue
		}
		cmd, err := tx.Exec(ctx, decrementStock, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			r.logger.Printf("order repo: settle product_id=%s insufficient stock", item.ProductID)
			return nil, domain.ErrInsufficientStock
		}
	}

	if customerID != nil {
		delta := o.PointsEarned - o.PointsDeducted
		// Reward eligibility was checked when the reward was applied; the
		// balance may have moved since. Re-validate under the same
		// transaction that mutates it: the customer must still hold the
		// reward's full cost, before this order's earnings land.
		const adjustPoints = `
UPDATE loyalty_customers
SET points = points + $1
WHERE id = $2 AND points >= $3
`
		cmd, err := tx.Exec(ctx, adjustPoints, delta, *customerID, o.PointsDeducted)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			r.logger.Printf("order repo: settle customer_id=%s insufficient points delta=%d", *customerID, delta)
			return nil, domain.ErrInsufficientPoints
		}

		const insertLedger = `
INSERT INTO loyalty_ledger (customer_id, customer_name, order_id, points, type, reward_id, reward_name, processed_by)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
`
		if o.PointsEarned > 0 {
			if _, err := tx.Exec(ctx, insertLedger,
				*customerID, o.CustomerName, o.ID, o.PointsEarned, domain.LedgerEarned, nil, "", in.Actor.ID,
			); err != nil {
				return nil, err
			}
		}
		if o.PointsDeducted > 0 {
			if _, err := tx.Exec(ctx, insertLedger,
				*customerID, o.CustomerName, o.ID, -o.PointsDeducted, domain.LedgerRedeemed, in.RewardID, o.RewardUsed, in.Actor.ID,
			); err != nil {
				return nil, err
			}
		}
	}

	if err := appendActivity(ctx, tx, in.ActivityType, in.ActivityDetail, in.Actor, &o.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: settled id=%s total=%s items=%d", o.ID, o.Total.StringFixed(2), len(o.Items))
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, customer_name, paid_subtotal, discount_applied, total,
       points_earned, points_deducted, COALESCE(reward_used, ''), status, COALESCE(notes, ''),
       payment, created_by::text, COALESCE(created_by_name, ''), created_at
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT product_id, name, unit_price, quantity, is_reward, COALESCE(reward_id::text, '')
FROM order_items
WHERE order_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.IsReward, &item.RewardID); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT id::text, customer_id::text, customer_name, paid_subtotal, discount_applied, total,
       points_earned, points_deducted, COALESCE(reward_used, ''), status, COALESCE(notes, ''),
       payment, created_by::text, COALESCE(created_by_name, ''), created_at
FROM orders
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, status, limit)
	if err != nil {
		r.logger.Printf("order repo: list status=%q error=%v", status, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) CapturePayment(ctx context.Context, id string, payment domain.Payment, actor domain.Actor) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status string
	var total domain.Order
	err = tx.QueryRow(ctx, `SELECT status, total FROM orders WHERE id = $1 FOR UPDATE`, id).
		Scan(&status, &total.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if status != string(domain.OrderPending) {
		return nil, domain.ErrInvalidStatus
	}
	if payment.Amount.LessThan(total.Total) {
		return nil, domain.ErrPaymentTooLow
	}

	payment.ChangeDue = payment.Amount.Sub(total.Total)
	payment.ProcessedAt = time.Now().UTC()
	raw, err := json.Marshal(payment)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET payment = $1, status = 'paid' WHERE id = $2`, raw, id); err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("Payment of %s received (%s)", payment.Amount.StringFixed(2), payment.Method)
	if err := appendActivity(ctx, tx, "payment", detail, actor, &id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: payment captured id=%s amount=%s", id, payment.Amount.StringFixed(2))
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, from, to domain.OrderStatus, actor domain.Actor) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrInvalidStatus
	}

	detail := fmt.Sprintf("Order #%.8s %s", id, to)
	if err := appendActivity(ctx, tx, "order_"+string(to), detail, actor, &id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Stats(ctx context.Context) (*domain.DashboardSummary, error) {
	out := &domain.DashboardSummary{OrdersByStatus: map[string]int{}}

	const revenueQ = `
SELECT COALESCE(SUM(total) FILTER (WHERE created_at >= date_trunc('day', now())), 0),
       COALESCE(SUM(total) FILTER (WHERE created_at >= date_trunc('week', now())), 0),
       COALESCE(SUM(total) FILTER (WHERE created_at >= date_trunc('month', now())), 0)
FROM orders
WHERE status IN ('paid', 'completed')
`
	if err := r.pool.QueryRow(ctx, revenueQ).Scan(&out.RevenueToday, &out.RevenueWeek, &out.RevenueMonth); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const topQ = `
SELECT oi.product_id, oi.name, SUM(oi.quantity)::int, COALESCE(SUM(oi.unit_price * oi.quantity), 0)
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE NOT oi.is_reward AND o.status IN ('paid', 'completed')
GROUP BY oi.product_id, oi.name
ORDER BY SUM(oi.quantity) DESC
LIMIT 5
`
	topRows, err := r.pool.Query(ctx, topQ)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()
	for topRows.Next() {
		var p domain.ProductSales
		if err := topRows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		out.TopProducts = append(out.TopProducts, p)
	}
	if err := topRows.Err(); err != nil {
		return nil, err
	}

	const pointsQ = `
SELECT COALESCE(SUM(points) FILTER (WHERE type = 'earned'), 0)::int,
       COALESCE(-SUM(points) FILTER (WHERE type = 'redeemed'), 0)::int
FROM loyalty_ledger
`
	if err := r.pool.QueryRow(ctx, pointsQ).Scan(&out.PointsIssued, &out.PointsRedeemed); err != nil {
		return nil, err
	}
	return out, nil
}

func appendActivity(ctx context.Context, tx pgx.Tx, activityType, description string, actor domain.Actor, orderID *string) error {
	const q = `
INSERT INTO activity_logs (type, description, actor_id, actor_name, order_id)
VALUES ($1, $2, $3, NULLIF($4, ''), $5::uuid)
`
	_, err := tx.Exec(ctx, q, activityType, description, actor.ID, actor.DisplayName, orderID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var customerID *string
	var paymentRaw []byte
	if err := row.Scan(
		&o.ID,
		&customerID,
		&o.CustomerName,
		&o.PaidSubtotal,
		&o.DiscountApplied,
		&o.Total,
		&o.PointsEarned,
		&o.PointsDeducted,
		&o.RewardUsed,
		&o.Status,
		&o.Notes,
		&paymentRaw,
		&o.CreatedBy,
		&o.CreatedByName,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.CustomerID = customerID
	if len(paymentRaw) > 0 {
		var p domain.Payment
		if err := json.Unmarshal(paymentRaw, &p); err != nil {
			return nil, err
		}
		o.Payment = &p
	}
	return &o, nil
}
