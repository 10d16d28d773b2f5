package postgres

import (
	"context"
	"errors"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "category.list"

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, translate(err, op, "failed to list categories")
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, translate(err, op, "failed to scan category")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op, "failed to read categories")
	}

	return out, nil
}

// CreateCategory inserts a category. Names are unique.
func (s *Store) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	const op = "category.create"

	c := domain.Category{Name: name}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at`,
		name,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, translate(err, op, "category name already exists")
	}

	return &c, nil
}

// RenameCategory updates a category's name.
func (s *Store) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	const op = "category.rename"

	c := domain.Category{ID: id, Name: name}
	err := s.pool.QueryRow(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1 RETURNING created_at`,
		id, name,
	).Scan(&c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "category", id.String())
		}
		return nil, translate(err, op, "category name already exists")
	}

	return &c, nil
}

// DeleteCategory removes a category. Categories referenced by products
// cannot be deleted.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "category.delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return translate(err, op, "category is still referenced by products")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "category", id.String())
	}

	return nil
}
