package domain

import (
	"fmt"
	"time"
)

// Enrollment tracks one course the user has bought, with per-lesson completion.
type Enrollment struct {
	ID               int       `json:"id"`
	CourseID         int       `json:"courseId"`
	Progress         int       `json:"progress"`
	CompletedLessons LessonSet `json:"completedLessons"`
	EnrolledDate     time.Time `json:"enrolledDate"`
	LastAccessed     time.Time `json:"lastAccessed"`
}

func (e Enrollment) GetID() int { return e.ID }

// NewEnrollment returns a fresh enrollment with no progress. The id is assigned by the store.
func NewEnrollment(courseID int, now time.Time) (Enrollment, error) {
	if courseID <= 0 {
		return Enrollment{}, fmt.Errorf("%w: course id must be positive", ErrInvalid)
	}
	now = now.UTC()
	return Enrollment{
		CourseID:         courseID,
		Progress:         0,
		CompletedLessons: LessonSet{},
		EnrolledDate:     now,
		LastAccessed:     now,
	}, nil
}

func (e Enrollment) Clone() Enrollment {
	out := e
	out.CompletedLessons = e.CompletedLessons.Clone()
	return out
}

// EnrollmentPatch is a shallow update; nil fields are left alone.
type EnrollmentPatch struct {
	Progress         *int       `json:"progress,omitempty"`
	CompletedLessons *LessonSet `json:"completedLessons,omitempty"`
	LastAccessed     *time.Time `json:"lastAccessed,omitempty"`
}

// Validate rejects out-of-range progress.
func (p EnrollmentPatch) Validate() error {
	if p.Progress != nil {
		if err := ValidateProgress(*p.Progress); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch into e and returns the result.
func (p EnrollmentPatch) Apply(e Enrollment) Enrollment {
	out := e.Clone()
	if p.Progress != nil {
		out.Progress = *p.Progress
	}
	if p.CompletedLessons != nil {
		out.CompletedLessons = p.CompletedLessons.Clone()
	}
	if p.LastAccessed != nil {
		out.LastAccessed = p.LastAccessed.UTC()
	}
	return out
}

// LearningEntry is an enrollment joined with its course and its status label.
type LearningEntry struct {
	Enrollment
	Course Course         `json:"course"`
	Status ProgressStatus `json:"status"`
}

// LearningStats are the counters shown on the learning dashboard.
type LearningStats struct {
	Enrolled   int `json:"enrolled"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
}
