package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	cart        cartStore
	courses     courseLister
	enrollments enrollmentStore
	payment     Payment
	rate        decimal.Decimal
	logger      *logger.Logger
	now         func() time.Time
}

type cartStore interface {
	List(ctx context.Context) ([]domain.CartItem, error)
	Clear(ctx context.Context) error
}

type courseLister interface {
	List(ctx context.Context) ([]domain.Course, error)
}

type enrollmentStore interface {
	Create(ctx context.Context, courseID int) (*domain.Enrollment, error)
	GetByCourse(ctx context.Context, courseID int) (*domain.Enrollment, error)
	Delete(ctx context.Context, id int) (bool, error)
}

func New(cart cartStore, courses courseLister, enrollments enrollmentStore, payment Payment, rate decimal.Decimal, log *logger.Logger) *Service {
	if payment == nil {
		payment = SimulatedPayment{}
	}
	return &Service{
		cart:        cart,
		courses:     courses,
		enrollments: enrollments,
		payment:     payment,
		rate:        rate,
		logger:      logger.OrNop(log),
		now:         time.Now,
	}
}

// Quote is what the checkout page shows before paying.
// Summary covers every cart item, including those listed in Missing.
type Quote struct {
	Lines   []domain.CartLine   `json:"items"`
	Missing []int               `json:"missingCourseIds"`
	Summary domain.PriceSummary `json:"summary"`
	items   []domain.CartItem
}

// Receipt describes a completed checkout.
type Receipt struct {
	OrderID     string              `json:"orderId"`
	Summary     domain.PriceSummary `json:"summary"`
	Enrollments []domain.Enrollment `json:"enrollments"`
	PaidAt      time.Time           `json:"paidAt"`
}

// Quote prices the cart.
func (s *Service) Quote(ctx context.Context) (*Quote, error) {
	var (
		items   []domain.CartItem
		courses []domain.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.cart.List(gctx)
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
	return &Quote{
		Lines:   domain.JoinCart(items, courses),
		Missing: domain.MissingCourses(items, courses),
		Summary: domain.Summarize(items, s.rate),
		items:   items,
	}, nil
}

// Checkout pays for the cart and turns every item into an enrollment.
// Either every course ends up enrolled and the cart is cleared, or nothing changes.
// A cart holding a course that is no longer in the catalog is rejected before payment.
func (s *Service) Checkout(ctx context.Context, form PaymentForm) (*Receipt, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	quote, err := s.Quote(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(quote.items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if len(quote.Missing) > 0 {
		return nil, fmt.Errorf("%w: courses no longer available: %v", domain.ErrInvalid, quote.Missing)
	}
	orderID := uuid.NewString()
	log := s.logger.With("order_id", orderID)
	log.Info("checkout: validated", "items", len(quote.items), "total", quote.Summary.Total.StringFixed(2))

	if err := s.payment.Charge(ctx, quote.Summary.Total, form); err != nil {
		log.Warn("checkout: payment failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	log.Info("checkout: paid")

	enrolled := make([]domain.Enrollment, 0, len(quote.items))
	var created []int
	for _, item := range quote.items {
		e, isNew, err := s.enroll(ctx, item.CourseID)
		if err != nil {
			s.rollback(ctx, log, created)
			return nil, fmt.Errorf("enroll course %d: %w", item.CourseID, err)
		}
		if isNew {
			created = append(created, e.ID)
		}
		enrolled = append(enrolled, *e)
	}
	log.Info("checkout: enrolled", "created", len(created), "kept", len(enrolled)-len(created))

	if err := s.cart.Clear(ctx); err != nil {
		s.rollback(ctx, log, created)
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	log.Info("checkout: cart cleared")

	return &Receipt{
		OrderID:     orderID,
		Summary:     quote.Summary,
		Enrollments: enrolled,
		PaidAt:      s.now().UTC(),
	}, nil
}

// enroll keeps an existing enrollment instead of duplicating it.
func (s *Service) enroll(ctx context.Context, courseID int) (*domain.Enrollment, bool, error) {
	e, err := s.enrollments.Create(ctx, courseID)
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, false, err
	}
	e, err = s.enrollments.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	return e, false, nil
}

// rollback removes enrollments created by the failed attempt. It runs even if ctx is cancelled.
func (s *Service) rollback(ctx context.Context, log *logger.Logger, ids []int) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if _, err := s.enrollments.Delete(ctx, id); err != nil {
			log.Error("checkout: rollback failed", "enrollment_id", id, "error", err)
		}
	}
	log.Warn("checkout: rolled back", "enrollments", len(ids))
}
