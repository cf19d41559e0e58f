package cart

import (
	"context"

	"coursemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// Repository owns the cart collection. At most one item exists per course.
type Repository interface {
	List(ctx context.Context) ([]domain.CartItem, error)
	// Add returns the existing item unchanged (created=false) when the course is already in the cart.
	Add(ctx context.Context, courseID int, price decimal.Decimal) (item domain.CartItem, created bool, err error)
	Remove(ctx context.Context, courseID int) (bool, error)
	Clear(ctx context.Context) error
	Total(ctx context.Context) (decimal.Decimal, error)
}
