package cart

import (
	"context"
	"errors"
	"fmt"

	"coursemarket/internal/domain"
	cartrepo "coursemarket/internal/repository/cart"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo    cartrepo.Repository
	courses courseReader
	rate    decimal.Decimal
}

type courseReader interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByID(ctx context.Context, id int) (*domain.Course, error)
}

func New(repo cartrepo.Repository, courses courseReader, rate decimal.Decimal) *Service {
	return &Service{repo: repo, courses: courses, rate: rate}
}

// View is the cart page. Summary covers every cart item; Missing lists items whose course is gone.
type View struct {
	Lines   []domain.CartLine   `json:"items"`
	Missing []int               `json:"missingCourseIds"`
	Summary domain.PriceSummary `json:"summary"`
	Count   int                 `json:"count"`
}

func (s *Service) Items(ctx context.Context) ([]domain.CartItem, error) {
	return s.repo.List(ctx)
}

// Add puts courseID in the cart at its current catalog price. Adding twice keeps the first item.
func (s *Service) Add(ctx context.Context, courseID int) (domain.CartItem, bool, error) {
	if courseID <= 0 {
		return domain.CartItem{}, false, fmt.Errorf("%w: course id must be positive", domain.ErrInvalid)
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.CartItem{}, false, fmt.Errorf("course %d: %w", courseID, domain.ErrNotFound)
		}
		return domain.CartItem{}, false, err
	}
	return s.repo.Add(ctx, course.ID, course.Price)
}

func (s *Service) Remove(ctx context.Context, courseID int) (bool, error) {
	return s.repo.Remove(ctx, courseID)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *Service) Total(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.Total(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// View loads the cart and the catalog in parallel and joins them.
func (s *Service) View(ctx context.Context) (*View, error) {
	var (
		items   []domain.CartItem
		courses []domain.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx)
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
	return &View{
		Lines:   domain.JoinCart(items, courses),
		Missing: domain.MissingCourses(items, courses),
		Summary: domain.Summarize(items, s.rate),
		Count:   len(items),
	}, nil
}
