package pos

import (
	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/money"
	"github.com/shopspring/decimal"
)

// Checkout and cart errors.
var (
	ErrEmptyOrder          = domain.Errorf(domain.EINVALID, "", "Cart has no items")
	ErrInvalidAmount       = domain.Errorf(domain.EINVALID, "", "Tendered amount is not a valid number")
	ErrInsufficientPayment = domain.Errorf(domain.EINVALID, "", "Tendered amount is less than the order total")
	ErrLineOutOfRange      = domain.Errorf(domain.EINVALID, "", "No line item at that position")
	ErrSubmissionInFlight  = domain.Errorf(domain.ECONFLICT, "", "A checkout is already in progress")
)

// ValidateTender is the sole gate before order submission. It checks, in
// order: the cart has at least one line, the raw tendered amount parses to
// a non-negative number, and the tender covers the cart total. On success
// it returns the change due (tendered minus total). It has no side effects.
func ValidateTender(c *Cart, rawTendered string) (decimal.Decimal, error) {
	if c.Len() == 0 {
		return decimal.Zero, ErrEmptyOrder
	}

	tendered, err := money.ParseAmount(rawTendered)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	total := c.Total()
	if tendered.LessThan(total) {
		return decimal.Zero, ErrInsufficientPayment
	}

	return tendered.Sub(total), nil
}
