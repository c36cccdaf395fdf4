package activity

import (
	"context"

	"cafepos/internal/domain"
)

type Repository interface {
	List(ctx context.Context, limit int) ([]domain.ActivityRecord, error)
	Append(ctx context.Context, record domain.ActivityRecord) error
}
