// Package money holds the monetary arithmetic for cart lines and tenders.
// Amounts stay at full decimal precision internally; rounding to two places
// happens only at display and persistence boundaries.
package money

import (
	"strings"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line holds the derived amounts for one cart line.
type Line struct {
	Subtotal           decimal.Decimal
	TotalAfterDiscount decimal.Decimal
}

// LineTotals computes subtotal = unitPrice * quantity and
// totalAfterDiscount = subtotal * (1 - discountPercent/100).
// Inputs are validated, never clamped: quantity must be at least 1,
// discountPercent within [0,100], unitPrice non-negative.
func LineTotals(unitPrice decimal.Decimal, quantity int, discountPercent decimal.Decimal) (Line, error) {
	const op = "money.line_totals"

	if unitPrice.IsNegative() {
		return Line{}, domain.Invalid(op, "unit price must not be negative")
	}
	if quantity < 1 {
		return Line{}, domain.Invalid(op, "quantity must be at least 1")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return Line{}, domain.Invalid(op, "discount must be between 0 and 100")
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	total := subtotal.Mul(hundred.Sub(discountPercent)).Div(hundred)

	return Line{Subtotal: subtotal, TotalAfterDiscount: total}, nil
}

// ParseAmount parses raw user input into a non-negative amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	const op = "money.parse_amount"

	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, domain.Invalid(op, "amount is not a number")
	}
	if d.IsNegative() {
		return decimal.Zero, domain.Invalid(op, "amount must not be negative")
	}
	return d, nil
}

// ParsePercent parses raw user input into a discount percentage in [0,100].
func ParsePercent(raw string) (decimal.Decimal, error) {
	const op = "money.parse_percent"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.Invalid(op, "discount is not a number")
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, domain.Invalid(op, "discount must be between 0 and 100")
	}
	return d, nil
}

// Display rounds an amount to two decimal places for presentation.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}
