package domain

import (
	"fmt"
	"math"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "Not Started"
	StatusInProgress ProgressStatus = "In Progress"
	StatusAlmostDone ProgressStatus = "Almost Done"
	StatusCompleted  ProgressStatus = "Completed"
)

// StatusFor classifies a progress percentage. 50 is already "Almost Done".
func StatusFor(progress int) ProgressStatus {
	switch {
	case progress <= 0:
		return StatusNotStarted
	case progress < 50:
		return StatusInProgress
	case progress < 100:
		return StatusAlmostDone
	default:
		return StatusCompleted
	}
}

// ComputeProgress returns round(100 * completed / total), clamped to 0..100.
func ComputeProgress(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(completed) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

func ValidateProgress(p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%w: progress %d outside 0..100", ErrInvalid, p)
	}
	return nil
}

// Stats counts completed and in-flight entries.
func Stats(entries []LearningEntry) LearningStats {
	st := LearningStats{Enrolled: len(entries)}
	for _, e := range entries {
		switch {
		case e.Progress >= 100:
			st.Completed++
		case e.Progress > 0:
			st.InProgress++
		}
	}
	return st
}
