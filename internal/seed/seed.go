package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"coursemarket/internal/domain"
)

//go:embed data/courses.json
var bundled []byte

// CourseWriter is the part of the course repository seeding needs.
type CourseWriter interface {
	Upsert(ctx context.Context, c domain.Course) (*domain.Course, error)
}

// Default returns the bundled demo catalog.
func Default() ([]domain.Course, error) {
	return Load(bytes.NewReader(bundled))
}

// Courses returns the catalog at path, or the bundled one when path is empty.
func Courses(path string) ([]domain.Course, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a JSON array of courses and validates each one.
func Load(r io.Reader) ([]domain.Course, error) {
	var courses []domain.Course
	if err := json.NewDecoder(r).Decode(&courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	seen := make(map[int]struct{}, len(courses))
	for _, c := range courses {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate course id %d", domain.ErrInvalid, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return courses, nil
}

// Apply upserts courses so repeated runs converge on the same catalog.
func Apply(ctx context.Context, w CourseWriter, courses []domain.Course) error {
	for _, c := range courses {
		if _, err := w.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert course %d: %w", c.ID, err)
		}
	}
	return nil
}
