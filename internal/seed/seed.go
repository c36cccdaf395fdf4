package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Categories []string       `yaml:"categories"`
	Products   []productSeed  `yaml:"products"`
	Rewards    []rewardSeed   `yaml:"rewards"`
	Customers  []customerSeed `yaml:"customers"`
	Staff      []staffSeed    `yaml:"staff"`
}

type productSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
}

type rewardSeed struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Kind           string `yaml:"kind"`
	Percent        int    `yaml:"percent"`
	PointsRequired int    `yaml:"pointsRequired"`
}

type customerSeed struct {
	Name       string `yaml:"name"`
	CardNumber string `yaml:"cardNumber"`
	Points     int    `yaml:"points"`
}

type staffSeed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
	Token string `yaml:"token"`
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	var fx fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fx); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	categoryIDs := make(map[string]string, len(fx.Categories))
	for _, name := range fx.Categories {
		id, err := ensureCategory(ctx, pool, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	for _, p := range fx.Products {
		if err := upsertProduct(ctx, pool, categoryIDs, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	for _, r := range fx.Rewards {
		if err := upsertReward(ctx, pool, r); err != nil {
			return fmt.Errorf("upsert reward %s: %w", r.Name, err)
		}
	}

	for _, c := range fx.Customers {
		if err := upsertCustomer(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert customer %s: %w", c.CardNumber, err)
		}
	}

	for _, s := range fx.Staff {
		if err := upsertStaff(ctx, pool, s); err != nil {
			return fmt.Errorf("upsert staff %s: %w", s.Email, err)
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryIDs map[string]string, p productSeed) error {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return fmt.Errorf("price %q: %w", p.Price, err)
	}
	var categoryID *string
	if id, ok := categoryIDs[p.Category]; ok {
		categoryID = &id
	}
	const q = `
INSERT INTO products (name, description, category_id, price, stock, available)
VALUES ($1, $2, $3::uuid, $4, $5, true)
ON CONFLICT (name) DO UPDATE
SET description = EXCLUDED.description,
    category_id = EXCLUDED.category_id,
    price = EXCLUDED.price,
    stock = EXCLUDED.stock
`
	_, err = pool.Exec(ctx, q, p.Name, p.Description, categoryID, price, p.Stock)
	return err
}

func upsertReward(ctx context.Context, pool *pgxpool.Pool, r rewardSeed) error {
	const q = `
INSERT INTO loyalty_rewards (name, description, kind, percent, points_required, active)
VALUES ($1, $2, $3, $4, $5, true)
ON CONFLICT (name) DO UPDATE
SET description = EXCLUDED.description,
    kind = EXCLUDED.kind,
    percent = EXCLUDED.percent,
    points_required = EXCLUDED.points_required
`
	_, err := pool.Exec(ctx, q, r.Name, r.Description, r.Kind, r.Percent, r.PointsRequired)
	return err
}

func upsertCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed) error {
	const q = `
INSERT INTO loyalty_customers (name, card_number, points)
VALUES ($1, $2, $3)
ON CONFLICT (card_number) DO UPDATE
SET name = EXCLUDED.name,
    points = EXCLUDED.points
`
	_, err := pool.Exec(ctx, q, c.Name, c.CardNumber, c.Points)
	return err
}

func upsertStaff(ctx context.Context, pool *pgxpool.Pool, s staffSeed) error {
	const q = `
INSERT INTO staff (name, email, role, token)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name,
    role = EXCLUDED.role,
    token = EXCLUDED.token
`
	_, err := pool.Exec(ctx, q, s.Name, s.Email, s.Role, s.Token)
	return err
}
