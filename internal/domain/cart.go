package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a pending purchase of one course at the price seen when it was added.
type CartItem struct {
	ID        int             `json:"id"`
	CourseID  int             `json:"courseId"`
	Price     decimal.Decimal `json:"price"`
	AddedDate time.Time       `json:"addedDate"`
}

func (i CartItem) GetID() int { return i.ID }

// NewCartItem validates the fields supplied by the caller. The id is assigned by the store.
func NewCartItem(courseID int, price decimal.Decimal, now time.Time) (CartItem, error) {
	if courseID <= 0 {
		return CartItem{}, fmt.Errorf("%w: course id must be positive", ErrInvalid)
	}
	if price.IsNegative() {
		return CartItem{}, fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	return CartItem{CourseID: courseID, Price: price, AddedDate: now.UTC()}, nil
}

// CartLine is a cart item joined with its course for display.
type CartLine struct {
	CartItem
	Course Course `json:"course"`
}
