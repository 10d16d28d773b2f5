package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/money"
	"github.com/google/uuid"
)

// CatalogHandler serves category and product management endpoints.
type CatalogHandler struct {
	categories domain.CategoryStore
	products   domain.ProductStore
	logger     *slog.Logger
}

func NewCatalogHandler(categories domain.CategoryStore, products domain.ProductStore, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

func parseID(r *http.Request, op string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid(op, "id must be a UUID")
	}
	return id, nil
}

type categoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := []categoryResponse{}
	for _, c := range categories {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, resp)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.create_category"

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "category name is required"))
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name})
}

// RenameCategory handles PUT /api/categories/{id}
func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.rename_category"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "category name is required"))
		return
	}

	category, err := h.categories.RenameCategory(r.Context(), id, strings.TrimSpace(req.Name))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, categoryResponse{ID: category.ID, Name: category.Name})
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.delete_category"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Price       string    `json:"price"`
	CategoryID  uuid.UUID `json:"category_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Price:       money.Display(p.Price),
		CategoryID:  p.CategoryID,
		Category:    p.Category,
		Description: p.Description,
	}
}

// ListProducts handles GET /api/products?q=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := []productResponse{}
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.get_product"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

type productRequest struct {
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Price       string    `json:"price"`
	CategoryID  uuid.UUID `json:"category_id"`
	Description string    `json:"description"`
}

func (req *productRequest) toDomain(op string) (*domain.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.Invalid(op, "product name is required")
	}
	if req.CategoryID == uuid.Nil {
		return nil, domain.Invalid(op, "category_id is required")
	}

	price, err := money.ParseAmount(req.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		Price:       price,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}, nil
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.create_product"

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := req.toDomain(op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.products.CreateProduct(r.Context(), product); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.update_product"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := req.toDomain(op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	product.ID = id

	if err := h.products.UpdateProduct(r.Context(), product); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.delete_product"

	id, err := parseID(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
