package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/middleware"
	"github.com/arenaretail/pos/internal/money"
	"github.com/arenaretail/pos/internal/pos"
	"github.com/arenaretail/pos/internal/service"
	"github.com/google/uuid"
)

// SessionHeader names the terminal session a cart belongs to. Requests
// without it fall back to the authenticated subject's cart.
const SessionHeader = "X-POS-Session"

// POSHandler serves the cart and checkout endpoints.
type POSHandler struct {
	registry *pos.Registry
	products domain.ProductStore
	orders   service.OrderService
	metrics  *middleware.Metrics
	logger   *slog.Logger
}

func NewPOSHandler(registry *pos.Registry, products domain.ProductStore, orders service.OrderService, metrics *middleware.Metrics, logger *slog.Logger) *POSHandler {
	return &POSHandler{
		registry: registry,
		products: products,
		orders:   orders,
		metrics:  metrics,
		logger:   logger,
	}
}

func (h *POSHandler) cart(r *http.Request) (*pos.Cart, error) {
	session := r.Header.Get(SessionHeader)
	if session == "" {
		// No session header: an authenticated terminal still gets a cart,
		// keyed by its token subject.
		if subject := middleware.GetSubject(r.Context()); subject != nil {
			session = "subject:" + subject.ID
		}
	}
	if session == "" {
		return nil, domain.Invalid("pos.session", "missing "+SessionHeader+" header")
	}
	return h.registry.Cart(session), nil
}

type lineItemResponse struct {
	Index     int       `json:"index"`
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Quantity  int       `json:"quantity"`
	Discount  string    `json:"discount"`
	Subtotal  string    `json:"subtotal"`
	Total     string    `json:"total"`
}

type cartResponse struct {
	CustomerName string             `json:"customer_name"`
	PhoneNumber  string             `json:"phone_number"`
	Items        []lineItemResponse `json:"items"`
	ItemCount    int                `json:"item_count"`
	Total        string             `json:"total"`
}

func toCartResponse(c *pos.Cart) cartResponse {
	resp := cartResponse{
		CustomerName: c.CustomerName,
		PhoneNumber:  c.PhoneNumber,
		Items:        []lineItemResponse{},
		ItemCount:    c.ItemCount(),
		Total:        money.Display(c.Total()),
	}
	for i, ln := range c.Lines() {
		resp.Items = append(resp.Items, lineItemResponse{
			Index:     i,
			ProductID: ln.ProductID,
			Code:      ln.Code,
			Name:      ln.Name,
			Price:     money.Display(ln.Price),
			Quantity:  ln.Quantity,
			Discount:  ln.Discount.String(),
			Subtotal:  money.Display(ln.Subtotal),
			Total:     money.Display(ln.TotalAfterDiscount),
		})
	}
	return resp
}

// GetCart handles GET /api/cart
func (h *POSHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// ClearCart handles DELETE /api/cart
func (h *POSHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	cart.Clear()
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Discount  string    `json:"discount"`
}

// AddItem handles POST /api/cart/items
func (h *POSHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	discount, err := money.ParsePercent(req.Discount)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if _, err := cart.AddLine(*product, req.Quantity, discount); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles DELETE /api/cart/items/{index}
func (h *POSHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("pos.remove_item", "line index must be a number"))
		return
	}

	if err := cart.RemoveLine(index); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

type setCustomerRequest struct {
	CustomerName string `json:"customer_name"`
	PhoneNumber  string `json:"phone_number"`
}

// SetCustomer handles PUT /api/cart/customer
func (h *POSHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req setCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	cart.SetCustomer(req.CustomerName, req.PhoneNumber)
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

type checkoutRequest struct {
	TenderedAmount string `json:"tendered_amount"`
}

type orderItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int32     `json:"quantity"`
	Price     string    `json:"price"`
	Discount  string    `json:"discount"`
	Total     string    `json:"total"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         *uuid.UUID          `json:"user_id"`
	CustomerName   string              `json:"customer_name"`
	PhoneNumber    string              `json:"phone_number"`
	Total          string              `json:"total"`
	TenderedAmount string              `json:"tendered_amount"`
	Change         string              `json:"change"`
	CreatedAt      string              `json:"created_at"`
	Items          []orderItemResponse `json:"items"`
	Receipt        string              `json:"receipt,omitempty"`
}

func toOrderResponse(o *domain.Order, receiptDoc string) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		CustomerName:   o.CustomerName,
		PhoneNumber:    o.PhoneNumber,
		Total:          money.Display(o.Total),
		TenderedAmount: money.Display(o.TenderedAmount),
		Change:         money.Display(o.Change),
		CreatedAt:      o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Items:          []orderItemResponse{},
		Receipt:        receiptDoc,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     money.Display(it.Price),
			Discount:  it.Discount.String(),
			Total:     money.Display(it.Total()),
		})
	}
	return resp
}

// Checkout handles POST /api/checkout
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	subject := middleware.GetSubject(r.Context())

	order, err := h.orders.Submit(r.Context(), cart, req.TenderedAmount, subject)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.metrics.RecordSale()

	respondJSON(w, http.StatusCreated, toOrderResponse(order, h.orders.Receipt(order)))
}
