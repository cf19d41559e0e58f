package enrollment

import (
	"context"

	"coursemarket/internal/domain"
)

// Repository owns the enrollment collection. At most one enrollment exists per course.
type Repository interface {
	List(ctx context.Context) ([]domain.Enrollment, error)
	GetByID(ctx context.Context, id int) (*domain.Enrollment, error)
	GetByCourse(ctx context.Context, courseID int) (*domain.Enrollment, error)
	// Create fails with domain.ErrConflict if the course already has an enrollment.
	Create(ctx context.Context, courseID int) (*domain.Enrollment, error)
	Update(ctx context.Context, id int, patch domain.EnrollmentPatch) (*domain.Enrollment, error)
	// UpdateProgress adds lessonID to the completed set, stores progress and touches LastAccessed.
	UpdateProgress(ctx context.Context, courseID, lessonID, progress int) (*domain.Enrollment, error)
	Delete(ctx context.Context, id int) (bool, error)
}
