// Package postgres implements the store interfaces in internal/domain
// against PostgreSQL using pgx. Monetary columns are numeric; they cross
// the driver boundary as text and are parsed into decimals so no precision
// is lost.
package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgreSQL error codes translated into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Store is the PostgreSQL-backed store for categories, products, users,
// and orders.
type Store struct {
	pool *pgxpool.Pool
}

// Compile-time checks that Store implements the domain store interfaces.
var (
	_ domain.CategoryStore = (*Store)(nil)
	_ domain.ProductStore  = (*Store)(nil)
	_ domain.UserStore     = (*Store)(nil)
	_ domain.OrderStore    = (*Store)(nil)
)

// NewStore creates a store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// translate maps low-level pgx errors onto the domain taxonomy:
// constraint violations become conflicts (retryable only after the
// conflicting input changes), transport failures become unavailable
// (retryable as-is), everything else is internal.
func translate(err error, op, msg string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation:
			return domain.WrapError(err, domain.ECONFLICT, op, msg)
		case codeCheckViolation:
			return domain.WrapError(err, domain.EINVALID, op, msg)
		}
		return domain.Internal(err, op, msg)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Unavailable(err, op, "store unreachable")
	}

	return domain.Internal(err, op, msg)
}

// parseDec parses a numeric column scanned as text.
func parseDec(s string, op string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Internal(err, op, "malformed numeric value from store")
	}
	return d, nil
}
