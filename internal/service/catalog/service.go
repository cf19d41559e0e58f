package catalog

import (
	"context"
	"sort"
	"strings"

	"coursemarket/internal/domain"
	courserepo "coursemarket/internal/repository/course"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "All"

// Policy holds the curated-list thresholds.
type Policy struct {
	PopularMinStudents int
	PopularLimit       int
	FeaturedMinRating  float64
	FeaturedLimit      int
}

// DefaultPolicy: more than 5000 students for popular (top 8), rating 4.5+ for featured (top 6).
var DefaultPolicy = Policy{
	PopularMinStudents: 5000,
	PopularLimit:       8,
	FeaturedMinRating:  4.5,
	FeaturedLimit:      6,
}

// Service answers read-only catalog queries. Every result is a fresh copy.
type Service struct {
	repo   courserepo.Repository
	policy Policy
}

func New(repo courserepo.Repository, policy Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

func (s *Service) All(ctx context.Context) ([]domain.Course, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Course, error) {
	return s.repo.GetByID(ctx, id)
}

// Lookup resolves an id received as text, e.g. from a URL.
func (s *Service) Lookup(ctx context.Context, ref string) (*domain.Course, error) {
	id, err := domain.ParseID(ref)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Search matches query case-insensitively against title, description and instructor name.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	return filter(courses, func(c domain.Course) bool {
		return strings.Contains(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.Description), q) ||
			strings.Contains(strings.ToLower(c.Instructor.Name), q)
	}), nil
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if category == AllCategories {
		return courses, nil
	}
	return filter(courses, func(c domain.Course) bool { return c.Category == category }), nil
}

// Browse searches when query is non-blank, otherwise filters by category.
func (s *Service) Browse(ctx context.Context, query, category string) ([]domain.Course, error) {
	if strings.TrimSpace(query) != "" {
		return s.Search(ctx, query)
	}
	if category == "" {
		category = AllCategories
	}
	return s.ByCategory(ctx, category)
}

func (s *Service) Popular(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := filter(courses, func(c domain.Course) bool { return c.StudentsCount > s.policy.PopularMinStudents })
	sort.SliceStable(out, func(i, j int) bool { return out[i].StudentsCount > out[j].StudentsCount })
	return capAt(out, s.policy.PopularLimit), nil
}

func (s *Service) Featured(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := filter(courses, func(c domain.Course) bool { return c.Rating >= s.policy.FeaturedMinRating })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return capAt(out, s.policy.FeaturedLimit), nil
}

// Categories lists AllCategories followed by each distinct category in catalog order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{AllCategories}
	seen := map[string]bool{AllCategories: true}
	for _, c := range courses {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		out = append(out, c.Category)
	}
	return out, nil
}

func filter(courses []domain.Course, keep func(domain.Course) bool) []domain.Course {
	out := []domain.Course{}
	for _, c := range courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func capAt(courses []domain.Course, limit int) []domain.Course {
	if limit >= 0 && len(courses) > limit {
		return courses[:limit]
	}
	return courses
}
