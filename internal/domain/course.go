package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Course is a catalog entry. Carts and enrollments only ever reference it by ID.
type Course struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Level         string          `json:"level"`
	Duration      string          `json:"duration"`
	Thumbnail     string          `json:"thumbnail"`
	Price         decimal.Decimal `json:"price"`
	Rating        float64         `json:"rating"`
	StudentsCount int             `json:"studentsCount"`
	LastUpdated   string          `json:"lastUpdated"`
	Instructor    Instructor      `json:"instructor"`
	Sections      []Section       `json:"sections"`
}

type Instructor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

type Section struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	TotalDuration string   `json:"totalDuration"`
	Lessons       []Lesson `json:"lessons"`
}

type Lesson struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

func (c Course) GetID() int { return c.ID }

// TotalLessons counts lessons across every section.
func (c Course) TotalLessons() int {
	total := 0
	for _, s := range c.Sections {
		total += len(s.Lessons)
	}
	return total
}

// HasLesson reports whether lessonID belongs to one of the course's sections.
func (c Course) HasLesson(lessonID int) bool {
	for _, s := range c.Sections {
		for _, l := range s.Lessons {
			if l.ID == lessonID {
				return true
			}
		}
	}
	return false
}

// TotalRuntime sums lesson durations. Lessons with unparseable durations count as zero.
func (c Course) TotalRuntime() time.Duration {
	var total time.Duration
	for _, s := range c.Sections {
		for _, l := range s.Lessons {
			d, err := ParseLessonDuration(l.Duration)
			if err != nil {
				continue
			}
			total += d
		}
	}
	return total
}

// Validate checks the attributes the rest of the system relies on.
func (c Course) Validate() error {
	switch {
	case c.ID <= 0:
		return fmt.Errorf("%w: course id must be positive", ErrInvalid)
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: course %d title required", ErrInvalid, c.ID)
	case c.Price.IsNegative():
		return fmt.Errorf("%w: course %d price must not be negative", ErrInvalid, c.ID)
	case c.Rating < 0 || c.Rating > 5:
		return fmt.Errorf("%w: course %d rating must be within 0..5", ErrInvalid, c.ID)
	case c.StudentsCount < 0:
		return fmt.Errorf("%w: course %d students count must not be negative", ErrInvalid, c.ID)
	}
	return nil
}

// Clone returns a deep copy so callers cannot reach shared section slices.
func (c Course) Clone() Course {
	out := c
	if c.Sections != nil {
		out.Sections = make([]Section, len(c.Sections))
		for i, s := range c.Sections {
			out.Sections[i] = s
			if s.Lessons != nil {
				out.Sections[i].Lessons = append([]Lesson(nil), s.Lessons...)
			}
		}
	}
	return out
}

// CloneCourses deep-copies a slice of courses.
func CloneCourses(in []Course) []Course {
	out := make([]Course, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// ParseLessonDuration parses the "mm:ss" strings lessons carry.
func ParseLessonDuration(s string) (time.Duration, error) {
	mins, secs, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: duration %q is not mm:ss", ErrInvalid, s)
	}
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: duration %q has bad minutes", ErrInvalid, s)
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("%w: duration %q has bad seconds", ErrInvalid, s)
	}
	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// ParseID converts an externally supplied id string into a course or record id.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", ErrInvalid, raw)
	}
	return id, nil
}
