// Package pos holds the in-memory state of an in-progress sale: the cart,
// its line items, and the checkout gate that validates tenders before the
// order submission service persists anything.
package pos

import (
	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product's presence in the active cart. Price is copied
// from the catalog at add time.
type LineItem struct {
	ProductID          uuid.UUID
	Code               string
	Name               string
	Price              decimal.Decimal
	Quantity           int
	Discount           decimal.Decimal // percent, 0-100
	Subtotal           decimal.Decimal
	TotalAfterDiscount decimal.Decimal
}

// Cart is the ordered line-item collection for one in-progress sale, plus
// the optional free-text customer fields. A cart is exclusively owned by
// the session that created it; mutating methods are not safe for concurrent
// use. The submission flag is the one piece of cross-call coordination: it
// keeps a second checkout from starting while one is in flight.
type Cart struct {
	CustomerName string
	PhoneNumber  string

	lines      []LineItem
	submitting bool
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddLine adds a product to the cart. If a line with the same product code
// already exists it is merged in place: quantity is additive, the discount
// is overwritten with the latest input, and totals are recomputed.
// Products without a code merge by product ID instead.
func (c *Cart) AddLine(p domain.Product, quantity int, discountPercent decimal.Decimal) (LineItem, error) {
	// The requested quantity is checked before the merge branch; merging
	// must never let a zero or negative add through on the back of an
	// already valid line.
	if quantity < 1 {
		return LineItem{}, domain.Invalid("cart.add_line", "quantity must be at least 1")
	}

	key := p.Code
	if key == "" {
		key = p.ID.String()
	}

	for i, ln := range c.lines {
		if c.lineKey(ln) != key {
			continue
		}

		merged, err := money.LineTotals(ln.Price, ln.Quantity+quantity, discountPercent)
		if err != nil {
			return LineItem{}, err
		}
		c.lines[i].Quantity += quantity
		c.lines[i].Discount = discountPercent
		c.lines[i].Subtotal = merged.Subtotal
		c.lines[i].TotalAfterDiscount = merged.TotalAfterDiscount
		return c.lines[i], nil
	}

	totals, err := money.LineTotals(p.Price, quantity, discountPercent)
	if err != nil {
		return LineItem{}, err
	}

	line := LineItem{
		ProductID:          p.ID,
		Code:               p.Code,
		Name:               p.Name,
		Price:              p.Price,
		Quantity:           quantity,
		Discount:           discountPercent,
		Subtotal:           totals.Subtotal,
		TotalAfterDiscount: totals.TotalAfterDiscount,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

func (c *Cart) lineKey(ln LineItem) string {
	if ln.Code != "" {
		return ln.Code
	}
	return ln.ProductID.String()
}

// RemoveLine removes the line at the given position.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Lines returns a copy of the current line items in order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the number of units across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, ln := range c.lines {
		n += ln.Quantity
	}
	return n
}

// Total returns the sum of totalAfterDiscount across all lines. It is
// recomputed on every call; the cart never caches an aggregate.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ln := range c.lines {
		total = total.Add(ln.TotalAfterDiscount)
	}
	return total
}

// SetCustomer sets the free-text customer fields. Neither is validated
// against the identity provider.
func (c *Cart) SetCustomer(name, phone string) {
	c.CustomerName = name
	c.PhoneNumber = phone
}

// Clear empties the line items and resets the customer fields.
func (c *Cart) Clear() {
	c.lines = nil
	c.CustomerName = ""
	c.PhoneNumber = ""
}

// BeginSubmission marks a checkout as in flight. A second checkout on the
// same cart fails until EndSubmission is called.
func (c *Cart) BeginSubmission() error {
	if c.submitting {
		return ErrSubmissionInFlight
	}
	c.submitting = true
	return nil
}

// EndSubmission clears the in-flight flag, successful or not.
func (c *Cart) EndSubmission() {
	c.submitting = false
}
