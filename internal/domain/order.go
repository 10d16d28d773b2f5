package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of a persisted order. Quantity, price, and discount
// are captured as of sale time and never re-derived from the catalog.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string // product name joined for display; not re-priced
	Quantity  int32
	Price     decimal.Decimal
	Discount  decimal.Decimal // percent, 0-100
}

// Total returns the line amount after discount.
func (it OrderItem) Total() decimal.Decimal {
	subtotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
	return subtotal.Mul(decimal.NewFromInt(100).Sub(it.Discount)).Div(decimal.NewFromInt(100))
}

// Order is a finalized checkout. Immutable once created; there is no edit
// or cancel flow.
type Order struct {
	ID             uuid.UUID
	UserID         *uuid.UUID // nil for anonymous/walk-in sales
	CustomerName   string
	PhoneNumber    string
	Total          decimal.Decimal
	TenderedAmount decimal.Decimal
	Change         decimal.Decimal
	CreatedAt      time.Time
	Items          []OrderItem
}

// ItemCount returns the number of units across all lines.
func (o *Order) ItemCount() int32 {
	var n int32
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// SalesSummary aggregates persisted orders for the statistics screen.
type SalesSummary struct {
	OrderCount int64
	ItemsSold  int64
	GrossTotal decimal.Decimal
}

// OrderTx is an open order-submission transaction. The header and every
// line item are inserted through the same transaction; nothing is visible
// until Commit. Rollback after Commit is a no-op.
type OrderTx interface {
	InsertOrder(ctx context.Context, o *Order) error
	InsertItem(ctx context.Context, it *OrderItem) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// OrderStore persists finalized orders.
type OrderStore interface {
	BeginOrder(ctx context.Context) (OrderTx, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
}
