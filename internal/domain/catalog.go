package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups catalog products. Names are unique.
type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Product is a catalog entry. Price is the current unit price; carts copy it
// at add time so later catalog edits do not affect an in-progress sale.
type Product struct {
	ID          uuid.UUID
	Name        string
	Code        string // unique when set, may be empty
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	Category    string // joined category name, read-only
	Description string
	CreatedAt   time.Time
}

// CategoryStore persists categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ProductStore persists catalog products.
type ProductStore interface {
	// ListProducts returns products newest first, with the category name
	// joined in. A non-empty query filters by name or code substring.
	ListProducts(ctx context.Context, query string) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
