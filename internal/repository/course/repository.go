package course

import (
	"context"

	"coursemarket/internal/domain"
)

// Repository is the catalog's persistence boundary. List returns catalog order (ascending id).
type Repository interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByID(ctx context.Context, id int) (*domain.Course, error)
	Upsert(ctx context.Context, c domain.Course) (*domain.Course, error)
}
