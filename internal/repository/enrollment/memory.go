package enrollment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/latency"
	"coursemarket/internal/logger"
)

type memoryRepo struct {
	mu          sync.Mutex
	enrollments []domain.Enrollment
	lat         latency.Simulator
	logger      *logger.Logger
	now         func() time.Time
}

// NewMemory builds an in-memory enrollment store seeded with records.
func NewMemory(seed []domain.Enrollment, lat latency.Simulator, log *logger.Logger) (Repository, error) {
	ids := map[int]struct{}{}
	courses := map[int]struct{}{}
	list := make([]domain.Enrollment, 0, len(seed))
	for _, e := range seed {
		if _, dup := ids[e.ID]; dup || e.ID <= 0 {
			return nil, fmt.Errorf("%w: bad enrollment id %d", domain.ErrInvalid, e.ID)
		}
		if _, dup := courses[e.CourseID]; dup || e.CourseID <= 0 {
			return nil, fmt.Errorf("%w: bad enrollment course %d", domain.ErrInvalid, e.CourseID)
		}
		if err := domain.ValidateProgress(e.Progress); err != nil {
			return nil, err
		}
		ids[e.ID] = struct{}{}
		courses[e.CourseID] = struct{}{}
		c := e.Clone()
		if c.CompletedLessons == nil {
			c.CompletedLessons = domain.LessonSet{}
		}
		list = append(list, c)
	}
	return &memoryRepo{enrollments: list, lat: lat, logger: logger.OrNop(log), now: time.Now}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]domain.Enrollment, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Enrollment, len(r.enrollments))
	for i, e := range r.enrollments {
		out[i] = e.Clone()
	}
	return out, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int) (*domain.Enrollment, error) {
	return r.find(ctx, func(e domain.Enrollment) bool { return e.ID == id })
}

func (r *memoryRepo) GetByCourse(ctx context.Context, courseID int) (*domain.Enrollment, error) {
	return r.find(ctx, func(e domain.Enrollment) bool { return e.CourseID == courseID })
}

func (r *memoryRepo) find(ctx context.Context, match func(domain.Enrollment) bool) (*domain.Enrollment, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexWhere(match); i >= 0 {
		out := r.enrollments[i].Clone()
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, courseID int) (*domain.Enrollment, error) {
	e, err := domain.NewEnrollment(courseID, r.now())
	if err != nil {
		return nil, err
	}
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexWhere(func(x domain.Enrollment) bool { return x.CourseID == courseID }) >= 0 {
		return nil, fmt.Errorf("%w: course %d already enrolled", domain.ErrConflict, courseID)
	}
	e.ID = domain.NextID(r.enrollments)
	r.enrollments = append(r.enrollments, e)
	r.logger.Debug("enrollment repo: created", "id", e.ID, "course_id", courseID)
	out := e.Clone()
	return &out, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int, patch domain.EnrollmentPatch) (*domain.Enrollment, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexWhere(func(e domain.Enrollment) bool { return e.ID == id })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r.enrollments[i] = patch.Apply(r.enrollments[i])
	r.logger.Debug("enrollment repo: updated", "id", id)
	out := r.enrollments[i].Clone()
	return &out, nil
}

func (r *memoryRepo) UpdateProgress(ctx context.Context, courseID, lessonID, progress int) (*domain.Enrollment, error) {
	if err := domain.ValidateProgress(progress); err != nil {
		return nil, err
	}
	if err := r.lat.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexWhere(func(e domain.Enrollment) bool { return e.CourseID == courseID })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	e := &r.enrollments[i]
	e.CompletedLessons.Add(lessonID)
	e.Progress = progress
	e.LastAccessed = r.now().UTC()
	r.logger.Debug("enrollment repo: progress", "id", e.ID, "lesson_id", lessonID, "progress", progress)
	out := e.Clone()
	return &out, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int) (bool, error) {
	if err := r.lat.Wait(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexWhere(func(e domain.Enrollment) bool { return e.ID == id })
	if i < 0 {
		return false, nil
	}
	r.enrollments = append(r.enrollments[:i:i], r.enrollments[i+1:]...)
	r.logger.Debug("enrollment repo: deleted", "id", id)
	return true, nil
}

// indexWhere must be called with mu held.
func (r *memoryRepo) indexWhere(match func(domain.Enrollment) bool) int {
	for i, e := range r.enrollments {
		if match(e) {
			return i
		}
	}
	return -1
}
