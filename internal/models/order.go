package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents valid order states
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderLine is one product of an order, priced when the order was placed.
type OrderLine struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Total returns the line amount in minor units.
func (l OrderLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Order represents a storefront order with business logic
type Order struct {
	ID        string
	Number    int64
	Reference string
	Customer  Contact
	Lines     []OrderLine
	Amount    int64
	Currency  string
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain errors
var (
	ErrEmptyOrder              = errors.New("order must contain at least one line")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidCurrency         = errors.New("currency code must be 3 characters")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderAlreadyConfirmed   = errors.New("order is already confirmed")
	ErrOrderAlreadyCancelled   = errors.New("order is already cancelled")
)

// NewOrder creates a pending order for customer with validation. The order
// number is assigned when the order is stored.
func NewOrder(customer Contact, lines []OrderLine, currency string) (*Order, error) {
	if err := validateOrderInput(lines, currency); err != nil {
		return nil, err
	}

	var amount int64
	for _, l := range lines {
		amount += l.Total()
	}
	now := time.Now()

	return &Order{
		ID:        uuid.New().String(),
		Reference: fmt.Sprintf("ORDER-%d", now.UnixNano()),
		Customer:  customer,
		Lines:     append([]OrderLine(nil), lines...),
		Amount:    amount,
		Currency:  currency,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// validateOrderInput validates order creation parameters
func validateOrderInput(lines []OrderLine, currency string) error {
	if len(lines) == 0 {
		return ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, l.Name, l.Quantity)
		}
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// Confirm marks a pending order as confirmed
func (o *Order) Confirm() error {
	switch o.Status {
	case OrderStatusConfirmed:
		return ErrOrderAlreadyConfirmed
	case OrderStatusCancelled:
		return fmt.Errorf("%w: cannot confirm a cancelled order", ErrInvalidStatusTransition)
	}

	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the order as cancelled
func (o *Order) Cancel() error {
	switch o.Status {
	case OrderStatusCancelled:
		return ErrOrderAlreadyCancelled
	case OrderStatusConfirmed:
		return fmt.Errorf("%w: cannot cancel a confirmed order", ErrInvalidStatusTransition)
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// IsPending returns true if the order is in pending status
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// GetFormattedAmount returns the amount formatted with currency
func (o *Order) GetFormattedAmount() string {
	return FormatPrice(o.Amount)
}

// FormatPrice renders minor units as dollars, e.g. 1199 as "$11.99".
func FormatPrice(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}
