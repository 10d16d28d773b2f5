package postgres

import (
	"context"
	"errors"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productColumns = `
	p.id, p.name, COALESCE(p.code, ''), p.price::text,
	p.category_id, COALESCE(c.name, ''), COALESCE(p.description, ''), p.created_at`

func scanProduct(row pgx.Row, op string) (*domain.Product, error) {
	var p domain.Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Code, &price,
		&p.CategoryID, &p.Category, &p.Description, &p.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	p.Price, err = parseDec(price, op)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products newest first with the category name joined
// in. A non-empty query filters by name or code substring, matching the
// POS screen's search box.
func (s *Store) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "product.list"

	sql := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id`
	args := []any{}
	if query != "" {
		sql += ` WHERE p.name ILIKE '%' || $1 || '%' OR p.code ILIKE '%' || $1 || '%'`
		args = append(args, query)
	}
	sql += ` ORDER BY p.created_at DESC`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, op, "failed to list products")
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows, op)
		if err != nil {
			return nil, translate(err, op, "failed to scan product")
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op, "failed to read products")
	}

	return out, nil
}

// GetProduct retrieves one product by ID.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const op = "product.get"

	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id)

	p, err := scanProduct(row, op)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "product", id.String())
		}
		return nil, translate(err, op, "failed to get product")
	}

	return p, nil
}

// CreateProduct inserts a catalog product. An empty code is stored as NULL
// so the unique constraint only applies to real codes.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	const op = "product.create"

	err := s.pool.QueryRow(ctx,
		`INSERT INTO products (name, code, price, category_id, description)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		 RETURNING id, created_at`,
		p.Name, p.Code, p.Price.String(), p.CategoryID, p.Description,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return translate(err, op, "product code already exists or category missing")
	}

	return nil
}

// UpdateProduct updates a catalog product's editable fields.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	const op = "product.update"

	tag, err := s.pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, code = NULLIF($3, ''), price = $4, category_id = $5, description = $6
		 WHERE id = $1`,
		p.ID, p.Name, p.Code, p.Price.String(), p.CategoryID, p.Description)
	if err != nil {
		return translate(err, op, "product code already exists or category missing")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "product", p.ID.String())
	}

	return nil
}

// DeleteProduct removes a product. Products referenced by order items
// cannot be deleted; sold orders keep their history.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "product.delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(err, op, "product is referenced by past sales")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "product", id.String())
	}

	return nil
}
