package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/latency"
	"coursemarket/internal/logger"
	"github.com/shopspring/decimal"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  []domain.CartItem
	lat    latency.Simulator
	logger *logger.Logger
	now    func() time.Time
}

// NewMemory builds an in-memory cart seeded with items. Seed items must have unique ids and courses.
func NewMemory(seed []domain.CartItem, lat latency.Simulator, log *logger.Logger) (Repository, error) {
	ids := map[int]struct{}{}
	courses := map[int]struct{}{}
	items := make([]domain.CartItem, 0, len(seed))
	for _, it := range seed {
		if _, err := domain.NewCartItem(it.CourseID, it.Price, it.AddedDate); err != nil {
			return nil, err
		}
		if _, dup := ids[it.ID]; dup || it.ID <= 0 {
			return nil, fmt.Errorf("%w: bad cart item id %d", domain.ErrInvalid, it.ID)
		}
		if _, dup := courses[it.CourseID]; dup {
			return nil, fmt.Errorf("%w: course %d appears twice in cart", domain.ErrInvalid, it.CourseID)
		}
		ids[it.ID] = struct{}{}
		courses[it.CourseID] = struct{}{}
		items = append(items, it)
	}
	return &memoryRepo{items: items, lat: lat, logger: logger.OrNop(log), now: time.Now}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]domain.CartItem, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CartItem{}, r.items...), nil
}

func (r *memoryRepo) Add(ctx context.Context, courseID int, price decimal.Decimal) (domain.CartItem, bool, error) {
	item, err := domain.NewCartItem(courseID, price, r.now())
	if err != nil {
		return domain.CartItem{}, false, err
	}
	if err := r.lat.Wait(ctx); err != nil {
		return domain.CartItem{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.CourseID == courseID {
			return it, false, nil
		}
	}
	item.ID = domain.NextID(r.items)
	r.items = append(r.items, item)
	r.logger.Debug("cart repo: added", "id", item.ID, "course_id", courseID, "price", price.String())
	return item, true, nil
}

func (r *memoryRepo) Remove(ctx context.Context, courseID int) (bool, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.CourseID == courseID {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			r.logger.Debug("cart repo: removed", "course_id", courseID)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Clear(ctx context.Context) error {
	if err := r.lat.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.logger.Debug("cart repo: cleared")
	return nil
}

func (r *memoryRepo) Total(ctx context.Context) (decimal.Decimal, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return decimal.Zero, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, it := range r.items {
		total = total.Add(it.Price)
	}
	return total, nil
}
