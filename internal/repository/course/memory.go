package course

import (
	"context"
	"fmt"
	"sync"

	"coursemarket/internal/domain"
	"coursemarket/internal/latency"
	"coursemarket/internal/logger"
)

type memoryRepo struct {
	mu      sync.RWMutex
	courses []domain.Course
	lat     latency.Simulator
	logger  *logger.Logger
}

// NewMemory seeds an in-memory catalog. Seed records are validated and copied,
// and List returns them in seed order with new courses appended.
func NewMemory(seed []domain.Course, lat latency.Simulator, log *logger.Logger) (Repository, error) {
	courses := make([]domain.Course, 0, len(seed))
	seen := make(map[int]struct{}, len(seed))
	for _, c := range seed {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate course id %d", domain.ErrInvalid, c.ID)
		}
		seen[c.ID] = struct{}{}
		courses = append(courses, c.Clone())
	}
	return &memoryRepo{courses: courses, lat: lat, logger: logger.OrNop(log)}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]domain.Course, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CloneCourses(r.courses), nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int) (*domain.Course, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.courses {
		if c.ID == id {
			out := c.Clone()
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Upsert(ctx context.Context, c domain.Course) (*domain.Course, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := c.Clone()
	for i := range r.courses {
		if r.courses[i].ID == c.ID {
			r.courses[i] = stored
			r.logger.Debug("course repo: updated", "id", c.ID)
			out := stored.Clone()
			return &out, nil
		}
	}
	r.courses = append(r.courses, stored)
	r.logger.Debug("course repo: inserted", "id", c.ID)
	out := stored.Clone()
	return &out, nil
}
