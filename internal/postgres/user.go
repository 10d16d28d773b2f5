package postgres

import (
	"context"
	"errors"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/jackc/pgx/v5"
)

// GetUserBySubject looks up a cashier by the subject claim of their token.
func (s *Store) GetUserBySubject(ctx context.Context, subject string) (*domain.User, error) {
	const op = "user.get_by_subject"

	var u domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, subject, COALESCE(name, ''), COALESCE(email, ''), created_at
		 FROM users WHERE subject = $1`, subject,
	).Scan(&u.ID, &u.Subject, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "user", subject)
		}
		return nil, translate(err, op, "failed to get user")
	}

	return &u, nil
}

// CreateUser inserts a user record for a subject seen for the first time.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	const op = "user.create"

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (subject, name, email)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		 RETURNING id, created_at`,
		u.Subject, u.Name, u.Email,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return translate(err, op, "user already exists")
	}

	return nil
}

// UpsertUser creates or refreshes a user keyed by subject. Used by the
// identity webhook so profile edits upstream propagate here.
func (s *Store) UpsertUser(ctx context.Context, u *domain.User) error {
	const op = "user.upsert"

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (subject, name, email)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		 ON CONFLICT (subject) DO UPDATE
		 SET name = EXCLUDED.name, email = EXCLUDED.email
		 RETURNING id, created_at`,
		u.Subject, u.Name, u.Email,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return translate(err, op, "failed to upsert user")
	}

	return nil
}
