package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/money"
	"github.com/arenaretail/pos/internal/service"
)

// ReportsHandler serves sales history, summaries, and receipt reprints.
type ReportsHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

func NewReportsHandler(orders service.OrderService, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{orders: orders, logger: logger}
}

// ListOrders handles GET /api/orders
func (h *ReportsHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := []orderResponse{}
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i], ""))
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetOrder handles GET /api/orders/{id}
func (h *ReportsHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "reports.get_order"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order, ""))
}

// GetReceipt handles GET /api/orders/{id}/receipt. The receipt is
// re-rendered from the stored order, so a reprint months later shows the
// prices paid at sale time.
func (h *ReportsHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	const op = "reports.get_receipt"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.orders.Receipt(order)))
}

type summaryResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	OrderCount int64  `json:"order_count"`
	ItemsSold  int64  `json:"items_sold"`
	GrossTotal string `json:"gross_total"`
}

// Summary handles GET /api/reports/summary?from=&to=. Bounds are RFC 3339
// dates; both default to today.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	const op = "reports.summary"

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "from must be a YYYY-MM-DD date"))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "to must be a YYYY-MM-DD date"))
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "from must be before to"))
		return
	}

	summary, err := h.orders.Summary(r.Context(), from, to)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryResponse{
		From:       from.Format("2006-01-02"),
		To:         to.AddDate(0, 0, -1).Format("2006-01-02"),
		OrderCount: summary.OrderCount,
		ItemsSold:  summary.ItemsSold,
		GrossTotal: money.Display(summary.GrossTotal),
	})
}
