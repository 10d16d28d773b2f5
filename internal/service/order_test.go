package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/arenaretail/pos/internal/auth"
	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/events"
	"github.com/arenaretail/pos/internal/pos"
	"github.com/arenaretail/pos/internal/receipt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderStore only exposes orders through committed transactions, so
// tests can assert nothing leaks out of a rolled-back submission.
type fakeOrderStore struct {
	committed []domain.Order
	failItem  int // 1-based index of the item insert that fails; 0 = never
	beginErr  error
}

type fakeOrderTx struct {
	store      *fakeOrderStore
	order      *domain.Order
	items      []domain.OrderItem
	committed  bool
	rolledBack bool
}

func (s *fakeOrderStore) BeginOrder(ctx context.Context) (domain.OrderTx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &fakeOrderTx{store: s}, nil
}

func (s *fakeOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	for i := range s.committed {
		if s.committed[i].ID == id {
			return &s.committed[i], nil
		}
	}
	return nil, domain.NotFound("fake.get_order", "order", id.String())
}

func (s *fakeOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.committed, nil
}

func (s *fakeOrderStore) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	sum := &domain.SalesSummary{GrossTotal: decimal.Zero}
	for _, o := range s.committed {
		sum.OrderCount++
		sum.ItemsSold += int64(o.ItemCount())
		sum.GrossTotal = sum.GrossTotal.Add(o.Total)
	}
	return sum, nil
}

func (t *fakeOrderTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	t.order = o
	return nil
}

func (t *fakeOrderTx) InsertItem(ctx context.Context, it *domain.OrderItem) error {
	if t.store.failItem > 0 && len(t.items)+1 == t.store.failItem {
		return domain.Unavailable(errors.New("connection reset"), "fake.insert_item", "database unavailable")
	}
	it.ID = uuid.New()
	t.items = append(t.items, *it)
	return nil
}

func (t *fakeOrderTx) Commit(ctx context.Context) error {
	order := *t.order
	order.Items = t.items
	t.store.committed = append(t.store.committed, order)
	t.committed = true
	return nil
}

func (t *fakeOrderTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeUserStore struct {
	users     map[string]*domain.User
	getErr    error
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*domain.User{}}
}

func (s *fakeUserStore) GetUserBySubject(ctx context.Context, subject string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if u, ok := s.users[subject]; ok {
		return u, nil
	}
	return nil, domain.NotFound("fake.get_user", "user", subject)
}

func (s *fakeUserStore) CreateUser(ctx context.Context, u *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	s.users[u.Subject] = u
	return nil
}

func (s *fakeUserStore) UpsertUser(ctx context.Context, u *domain.User) error {
	return s.CreateUser(ctx, u)
}

type recordingPublisher struct {
	published []*domain.Order
	err       error
}

func (p *recordingPublisher) PublishSale(ctx context.Context, o *domain.Order) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, o)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testPrinter() *receipt.Printer {
	return &receipt.Printer{
		Info: receipt.StoreInfo{Name: "Fashion Arena", Currency: "Rs"},
		Sink: receipt.NopSink{},
	}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func loadedCart(t *testing.T) *pos.Cart {
	t.Helper()
	cart := pos.NewCart()
	_, err := cart.AddLine(domain.Product{
		ID: uuid.New(), Code: "SHIRT-01", Name: "Shirt", Price: dec(t, "100"),
	}, 2, dec(t, "10"))
	require.NoError(t, err)
	_, err = cart.AddLine(domain.Product{
		ID: uuid.New(), Code: "SOCKS-01", Name: "Socks", Price: dec(t, "50"),
	}, 1, decimal.Zero)
	require.NoError(t, err)
	return cart
}

func TestOrderService_Submit(t *testing.T) {
	store := &fakeOrderStore{}
	users := newFakeUserStore()
	pub := &recordingPublisher{}
	svc := NewOrderService(store, users, pub, testPrinter(), testLogger())

	cart := loadedCart(t)
	cart.SetCustomer("Ali", "0300-1234567")

	order, err := svc.Submit(context.Background(), cart, "250", nil)
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(dec(t, "230")), "total %s", order.Total)
	assert.True(t, order.TenderedAmount.Equal(dec(t, "250")))
	assert.True(t, order.Change.Equal(dec(t, "20")))
	assert.Equal(t, "Ali", order.CustomerName)
	assert.Nil(t, order.UserID)
	assert.Len(t, order.Items, 2)

	require.Len(t, store.committed, 1)
	assert.Len(t, store.committed[0].Items, 2)

	assert.Equal(t, 0, cart.Len(), "cart cleared after submit")
	assert.Empty(t, cart.CustomerName)

	require.Len(t, pub.published, 1)
	assert.Equal(t, order.ID, pub.published[0].ID)
}

func TestOrderService_Submit_AtomicOnItemFailure(t *testing.T) {
	store := &fakeOrderStore{failItem: 2}
	svc := NewOrderService(store, newFakeUserStore(), &recordingPublisher{}, testPrinter(), testLogger())

	cart := loadedCart(t)

	_, err := svc.Submit(context.Background(), cart, "250", nil)
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))

	assert.Empty(t, store.committed, "no partial order visible")
	assert.Equal(t, 2, cart.Len(), "cart retained after failed submit")

	// Flag released; the cashier can retry.
	require.NoError(t, cart.BeginSubmission())
	cart.EndSubmission()
}

func TestOrderService_Submit_InsufficientTender(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewOrderService(store, newFakeUserStore(), &recordingPublisher{}, testPrinter(), testLogger())

	cart := loadedCart(t)

	_, err := svc.Submit(context.Background(), cart, "229.99", nil)
	require.ErrorIs(t, err, pos.ErrInsufficientPayment)
	assert.Empty(t, store.committed)
}

func TestOrderService_Submit_RejectsConcurrentSubmission(t *testing.T) {
	svc := NewOrderService(&fakeOrderStore{}, newFakeUserStore(), &recordingPublisher{}, testPrinter(), testLogger())

	cart := loadedCart(t)
	require.NoError(t, cart.BeginSubmission())

	_, err := svc.Submit(context.Background(), cart, "250", nil)
	require.ErrorIs(t, err, pos.ErrSubmissionInFlight)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestOrderService_Submit_IdentifiedCashier(t *testing.T) {
	store := &fakeOrderStore{}
	users := newFakeUserStore()
	svc := NewOrderService(store, users, &recordingPublisher{}, testPrinter(), testLogger())

	subject := &auth.Subject{ID: "user_2abc", Name: "Sara", Email: "sara@example.com"}

	order, err := svc.Submit(context.Background(), loadedCart(t), "300", subject)
	require.NoError(t, err)

	require.NotNil(t, order.UserID)
	created, ok := users.users["user_2abc"]
	require.True(t, ok, "first sale creates the user")
	assert.Equal(t, created.ID, *order.UserID)

	// Second sale reuses the stored user.
	order2, err := svc.Submit(context.Background(), loadedCart(t), "300", subject)
	require.NoError(t, err)
	require.NotNil(t, order2.UserID)
	assert.Equal(t, created.ID, *order2.UserID)
}

func TestOrderService_Submit_IdentityFailureFallsBackToAnonymous(t *testing.T) {
	store := &fakeOrderStore{}
	users := newFakeUserStore()
	users.getErr = domain.Unavailable(errors.New("timeout"), "fake.get_user", "identity store down")
	svc := NewOrderService(store, users, &recordingPublisher{}, testPrinter(), testLogger())

	subject := &auth.Subject{ID: "user_2abc"}

	order, err := svc.Submit(context.Background(), loadedCart(t), "300", subject)
	require.NoError(t, err, "identity failure must not block the sale")
	assert.Nil(t, order.UserID)
	require.Len(t, store.committed, 1)
}

func TestOrderService_Submit_PublishFailureDoesNotFailSale(t *testing.T) {
	store := &fakeOrderStore{}
	pub := &recordingPublisher{err: domain.Unavailable(errors.New("nats down"), "fake.publish", "broker unavailable")}
	svc := NewOrderService(store, newFakeUserStore(), pub, testPrinter(), testLogger())

	order, err := svc.Submit(context.Background(), loadedCart(t), "250", nil)
	require.NoError(t, err)
	require.Len(t, store.committed, 1)
	assert.Equal(t, store.committed[0].ID, order.ID)
}

var _ events.Publisher = (*recordingPublisher)(nil)
