package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/arenaretail/pos/internal/auth"
	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/events"
	"github.com/arenaretail/pos/internal/pos"
	"github.com/arenaretail/pos/internal/receipt"
	"github.com/google/uuid"
)

// OrderService finalizes checkouts and serves sales history.
type OrderService interface {
	// Submit validates tender, persists the cart as an order atomically,
	// clears the cart on success, and returns the stored order.
	Submit(ctx context.Context, cart *pos.Cart, rawTendered string, subject *auth.Subject) (*domain.Order, error)

	// GetOrder fetches one persisted order with its items.
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// ListOrders returns sales history, newest first.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// Summary aggregates sales in [from, to).
	Summary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error)

	// Receipt renders the printable document for a persisted order.
	Receipt(o *domain.Order) string
}

type orderService struct {
	orders   domain.OrderStore
	users    domain.UserStore
	events   events.Publisher
	receipts *receipt.Printer
	logger   *slog.Logger
}

func NewOrderService(orders domain.OrderStore, users domain.UserStore, pub events.Publisher, printer *receipt.Printer, logger *slog.Logger) OrderService {
	return &orderService{
		orders:   orders,
		users:    users,
		events:   pub,
		receipts: printer,
		logger:   logger,
	}
}

func (s *orderService) Submit(ctx context.Context, cart *pos.Cart, rawTendered string, subject *auth.Subject) (*domain.Order, error) {
	const op = "order_service.submit"

	change, err := pos.ValidateTender(cart, rawTendered)
	if err != nil {
		return nil, err
	}

	if err := cart.BeginSubmission(); err != nil {
		return nil, err
	}
	defer cart.EndSubmission()

	identity := s.resolveIdentity(ctx, subject)

	total := cart.Total().Round(2)
	order := &domain.Order{
		CustomerName:   cart.CustomerName,
		PhoneNumber:    cart.PhoneNumber,
		Total:          total,
		TenderedAmount: total.Add(change).Round(2),
		Change:         change.Round(2),
	}
	if identity.Identified {
		id := identity.UserID
		order.UserID = &id
	}

	tx, err := s.orders.BeginOrder(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	for _, ln := range cart.Lines() {
		item := domain.OrderItem{
			OrderID:   order.ID,
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Quantity:  int32(ln.Quantity),
			Price:     ln.Price,
			Discount:  ln.Discount,
		}
		if err := tx.InsertItem(ctx, &item); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cart.Clear()

	// Post-commit side effects never fail the sale.
	if err := s.events.PublishSale(ctx, order); err != nil {
		s.logger.Warn("failed to publish sale event", "op", op, "order_id", order.ID, "error", err)
	}
	if err := s.receipts.Print(ctx, order); err != nil {
		s.logger.Warn("failed to print receipt", "op", op, "order_id", order.ID, "error", err)
	}

	return order, nil
}

// resolveIdentity maps a token subject to a local user, creating one on
// first sight. Any failure degrades to an anonymous sale; checkout never
// blocks on the identity store.
func (s *orderService) resolveIdentity(ctx context.Context, subject *auth.Subject) domain.Identity {
	const op = "order_service.resolve_identity"

	if subject == nil {
		return domain.Anonymous
	}

	u, err := s.users.GetUserBySubject(ctx, subject.ID)
	if err == nil {
		return domain.Identified(u.ID)
	}
	if domain.ErrorCode(err) != domain.ENOTFOUND {
		s.logger.Warn("identity lookup failed, recording anonymous sale", "op", op, "subject", subject.ID, "error", err)
		return domain.Anonymous
	}

	created := &domain.User{Subject: subject.ID, Name: subject.Name, Email: subject.Email}
	if err := s.users.CreateUser(ctx, created); err != nil {
		s.logger.Warn("identity create failed, recording anonymous sale", "op", op, "subject", subject.ID, "error", err)
		return domain.Anonymous
	}

	return domain.Identified(created.ID)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *orderService) Summary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	return s.orders.SalesSummary(ctx, from, to)
}

func (s *orderService) Receipt(o *domain.Order) string {
	return receipt.Render(o, s.receipts.Info)
}
