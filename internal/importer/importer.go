package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"coursemarket/internal/domain"
	"github.com/shopspring/decimal"
)

type CourseWriter interface {
	Upsert(ctx context.Context, c domain.Course) (*domain.Course, error)
}

// CSVImporter reads flat course exports and inserts/updates courses.
//
// A row with an id starts a course. Rows without an id continue the current course and
// carry only section and lesson columns. A section starts whenever section.id changes.
type CSVImporter struct {
	reader *csv.Reader
	repo   CourseWriter
}

func NewCSVImporter(r io.Reader, repo CourseWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // continuation rows may be short
	return &CSVImporter{reader: csvr, repo: repo}
}

// Run parses CSV rows and upserts courses grouped by course id.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, fmt.Errorf("%w: header row has no id column", domain.ErrInvalid)
	}

	var (
		current  *domain.Course
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		if pick(record, index, "id") != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current, err = parseCourse(record, index)
			if err != nil {
				return imported, fmt.Errorf("line %d: %w", line, err)
			}
		} else if current == nil {
			if isBlank(record) {
				continue
			}
			return imported, fmt.Errorf("%w: line %d continues no course", domain.ErrInvalid, line)
		}

		if err := addLesson(current, record, index); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, c *domain.Course) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := i.repo.Upsert(ctx, *c); err != nil {
		return fmt.Errorf("upsert course %d: %w", c.ID, err)
	}
	return nil
}

func parseCourse(record []string, index map[string]int) (*domain.Course, error) {
	id, err := domain.ParseID(pick(record, index, "id"))
	if err != nil {
		return nil, err
	}
	c := &domain.Course{
		ID:          id,
		Title:       pick(record, index, "title"),
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Level:       pick(record, index, "level"),
		Duration:    pick(record, index, "duration"),
		Thumbnail:   pick(record, index, "thumbnail"),
		LastUpdated: pick(record, index, "lastUpdated"),
		Instructor: domain.Instructor{
			Name:   pick(record, index, "instructor.name"),
			Avatar: pick(record, index, "instructor.avatar"),
			Bio:    pick(record, index, "instructor.bio"),
		},
	}
	if raw := pick(record, index, "price"); raw != "" {
		if c.Price, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("%w: course %d price %q", domain.ErrInvalid, id, raw)
		}
	}
	if raw := pick(record, index, "rating"); raw != "" {
		if c.Rating, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("%w: course %d rating %q", domain.ErrInvalid, id, raw)
		}
	}
	if raw := pick(record, index, "studentsCount"); raw != "" {
		if c.StudentsCount, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("%w: course %d students %q", domain.ErrInvalid, id, raw)
		}
	}
	return c, nil
}

func addLesson(c *domain.Course, record []string, index map[string]int) error {
	sectionRaw := pick(record, index, "section.id")
	if sectionRaw != "" {
		sectionID, err := domain.ParseID(sectionRaw)
		if err != nil {
			return err
		}
		if n := len(c.Sections); n == 0 || c.Sections[n-1].ID != sectionID {
			c.Sections = append(c.Sections, domain.Section{
				ID:            sectionID,
				Title:         pick(record, index, "section.title"),
				TotalDuration: pick(record, index, "section.totalDuration"),
			})
		}
	}

	lessonRaw := pick(record, index, "lesson.id")
	if lessonRaw == "" {
		return nil
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: course %d lesson %s has no section", domain.ErrInvalid, c.ID, lessonRaw)
	}
	lessonID, err := domain.ParseID(lessonRaw)
	if err != nil {
		return err
	}
	if c.HasLesson(lessonID) {
		return fmt.Errorf("%w: course %d repeats lesson %d", domain.ErrInvalid, c.ID, lessonID)
	}
	s := &c.Sections[len(c.Sections)-1]
	s.Lessons = append(s.Lessons, domain.Lesson{
		ID:       lessonID,
		Title:    pick(record, index, "lesson.title"),
		Duration: pick(record, index, "lesson.duration"),
	})
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
