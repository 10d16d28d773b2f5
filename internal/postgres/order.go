package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// orderTx wraps a pgx transaction so the service layer can persist an
// order atomically without importing pgx.
type orderTx struct {
	tx pgx.Tx
}

// BeginOrder opens the transaction an order is written inside.
func (s *Store) BeginOrder(ctx context.Context) (domain.OrderTx, error) {
	const op = "order.begin"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, translate(err, op, "failed to begin transaction")
	}

	return &orderTx{tx: tx}, nil
}

func (t *orderTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	const op = "order.insert"

	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, customer_name, phone_number, total, tendered_amount, change)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6)
		 RETURNING id, created_at`,
		o.UserID, o.CustomerName, o.PhoneNumber,
		o.Total.String(), o.TenderedAmount.String(), o.Change.String(),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return translate(err, op, "failed to insert order")
	}

	return nil
}

func (t *orderTx) InsertItem(ctx context.Context, item *domain.OrderItem) error {
	const op = "order.insert_item"

	err := t.tx.QueryRow(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, price, discount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		item.OrderID, item.ProductID, item.Quantity,
		item.Price.String(), item.Discount.String(),
	).Scan(&item.ID)
	if err != nil {
		return translate(err, op, "failed to insert order item")
	}

	return nil
}

func (t *orderTx) Commit(ctx context.Context) error {
	const op = "order.commit"

	if err := t.tx.Commit(ctx); err != nil {
		return translate(err, op, "failed to commit order")
	}
	return nil
}

func (t *orderTx) Rollback(ctx context.Context) error {
	const op = "order.rollback"

	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return translate(err, op, "failed to roll back order")
	}
	return nil
}

const orderColumns = `
	o.id, o.user_id, COALESCE(o.customer_name, ''), COALESCE(o.phone_number, ''),
	o.total::text, o.tendered_amount::text, o.change::text, o.created_at`

func scanOrder(row pgx.Row, op string) (*domain.Order, error) {
	var o domain.Order
	var total, tendered, change string
	if err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.PhoneNumber,
		&total, &tendered, &change, &o.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if o.Total, err = parseDec(total, op); err != nil {
		return nil, err
	}
	if o.TenderedAmount, err = parseDec(tendered, op); err != nil {
		return nil, err
	}
	if o.Change, err = parseDec(change, op); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) loadItems(ctx context.Context, op string, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.price::text, i.discount::text
		 FROM order_items i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.order_id = ANY($1)
		 ORDER BY i.id`, orderIDs)
	if err != nil {
		return nil, translate(err, op, "failed to list order items")
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		var price, discount string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &price, &discount); err != nil {
			return nil, translate(err, op, "failed to scan order item")
		}
		if item.Price, err = parseDec(price, op); err != nil {
			return nil, err
		}
		if item.Discount, err = parseDec(discount, op); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op, "failed to read order items")
	}

	return items, nil
}

// GetOrder retrieves an order with its items for receipt reprints.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "order.get"

	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)
	o, err := scanOrder(row, op)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "order", id.String())
		}
		return nil, translate(err, op, "failed to get order")
	}

	items, err := s.loadItems(ctx, op, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

// ListOrders returns sales newest first, items included.
func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "order.list"

	rows, err := s.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders o ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, translate(err, op, "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows, op)
		if err != nil {
			return nil, translate(err, op, "failed to scan order")
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op, "failed to read orders")
	}

	if len(ids) > 0 {
		items, err := s.loadItems(ctx, op, ids)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			orders[i].Items = items[orders[i].ID]
		}
	}

	return orders, nil
}

// SalesSummary aggregates sales between from and to, inclusive of from
// and exclusive of to.
func (s *Store) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	const op = "order.summary"

	var sum domain.SalesSummary
	var gross string
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE((SELECT SUM(i.quantity)
		                  FROM order_items i
		                  JOIN orders o2 ON o2.id = i.order_id
		                  WHERE o2.created_at >= $1 AND o2.created_at < $2), 0),
		        COALESCE(SUM(o.total), 0)::text
		 FROM orders o
		 WHERE o.created_at >= $1 AND o.created_at < $2`, from, to,
	).Scan(&sum.OrderCount, &sum.ItemsSold, &gross)
	if err != nil {
		return nil, translate(err, op, "failed to summarize sales")
	}

	if sum.GrossTotal, err = parseDec(gross, op); err != nil {
		return nil, err
	}

	return &sum, nil
}
