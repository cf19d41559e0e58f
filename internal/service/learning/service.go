package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"
	enrollmentrepo "coursemarket/internal/repository/enrollment"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo    enrollmentrepo.Repository
	courses courseReader
	cart    cartRemover
	logger  *logger.Logger

	// progressMu serializes read-compute-write of progress and lessons.
	progressMu sync.Mutex
}

type courseReader interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByID(ctx context.Context, id int) (*domain.Course, error)
}

type cartRemover interface {
	Remove(ctx context.Context, courseID int) (bool, error)
}

func New(repo enrollmentrepo.Repository, courses courseReader, cart cartRemover, log *logger.Logger) *Service {
	return &Service{repo: repo, courses: courses, cart: cart, logger: logger.OrNop(log)}
}

// View is the learning dashboard.
type View struct {
	Entries []domain.LearningEntry `json:"entries"`
	Stats   domain.LearningStats   `json:"stats"`
}

func (s *Service) List(ctx context.Context) ([]domain.Enrollment, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Enrollment, error) {
	return s.repo.GetByID(ctx, id)
}

// ForCourse returns the enrollment for courseID, or ErrNotFound if the course is not owned.
func (s *Service) ForCourse(ctx context.Context, courseID int) (*domain.Enrollment, error) {
	return s.repo.GetByCourse(ctx, courseID)
}

// Enroll enrolls in a single course directly, bypassing checkout, and drops it from the cart.
// Enrolling twice returns the existing enrollment.
func (s *Service) Enroll(ctx context.Context, courseID int) (*domain.Enrollment, bool, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, false, err
	}
	created := true
	e, err := s.repo.Create(ctx, courseID)
	if errors.Is(err, domain.ErrConflict) {
		created = false
		e, err = s.repo.GetByCourse(ctx, courseID)
	}
	if err != nil {
		return nil, false, err
	}
	if s.cart != nil {
		if _, err := s.cart.Remove(ctx, courseID); err != nil {
			s.logger.Warn("learning: cart cleanup after enroll failed", "course_id", courseID, "error", err)
		}
	}
	if created {
		s.logger.Info("learning: enrolled", "enrollment_id", e.ID, "course_id", courseID)
	}
	return e, created, nil
}

// CompleteLesson marks lessonID done and recomputes progress from the completed set.
// Completing a lesson twice leaves progress unchanged.
func (s *Service) CompleteLesson(ctx context.Context, courseID, lessonID int) (*domain.Enrollment, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasLesson(lessonID) {
		return nil, fmt.Errorf("%w: lesson %d is not part of course %d", domain.ErrInvalid, lessonID, courseID)
	}

	s.progressMu.Lock()
	defer s.progressMu.Unlock()

	e, err := s.repo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	done := e.CompletedLessons.Clone()
	done.Add(lessonID)
	progress := domain.ComputeProgress(done.Len(), course.TotalLessons())
	updated, err := s.repo.UpdateProgress(ctx, courseID, lessonID, progress)
	if err != nil {
		return nil, err
	}
	if updated.Progress == 100 && e.Progress < 100 {
		s.logger.Info("learning: course completed", "enrollment_id", updated.ID, "course_id", courseID)
	}
	return updated, nil
}

// Update applies patch with progress derived from the completed lessons.
// Patched lessons must belong to the course. An explicit progress that disagrees with
// the lesson set is rejected.
func (s *Service) Update(ctx context.Context, id int, patch domain.EnrollmentPatch) (*domain.Enrollment, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.progressMu.Lock()
	defer s.progressMu.Unlock()

	if patch.Progress == nil && patch.CompletedLessons == nil {
		return s.repo.Update(ctx, id, patch)
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, e.CourseID)
	if err != nil {
		return nil, err
	}
	done := e.CompletedLessons
	if patch.CompletedLessons != nil {
		done = *patch.CompletedLessons
		for _, lessonID := range done.IDs() {
			if !course.HasLesson(lessonID) {
				return nil, fmt.Errorf("%w: lesson %d is not part of course %d", domain.ErrInvalid, lessonID, course.ID)
			}
		}
	}
	progress := domain.ComputeProgress(done.Len(), course.TotalLessons())
	if patch.Progress != nil && *patch.Progress != progress {
		return nil, fmt.Errorf("%w: progress %d does not match %d of %d lessons completed",
			domain.ErrInvalid, *patch.Progress, done.Len(), course.TotalLessons())
	}
	patch.Progress = &progress
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// View loads enrollments and the catalog in parallel and joins them.
func (s *Service) View(ctx context.Context) (*View, error) {
	var (
		enrollments []domain.Enrollment
		courses     []domain.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		enrollments, err = s.repo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = s.courses.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	entries := domain.JoinEnrollments(enrollments, courses)
	return &View{Entries: entries, Stats: domain.Stats(entries)}, nil
}
