package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryStore struct {
	categories map[uuid.UUID]*domain.Category
}

func (s *fakeCategoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCategoryStore) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			return nil, domain.Conflict("fake.create_category", "category name already exists")
		}
	}
	c := &domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	s.categories[c.ID] = c
	return c, nil
}

func (s *fakeCategoryStore) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.NotFound("fake.rename_category", "category", id.String())
	}
	c.Name = name
	return c, nil
}

func (s *fakeCategoryStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.categories[id]; !ok {
		return domain.NotFound("fake.delete_category", "category", id.String())
	}
	delete(s.categories, id)
	return nil
}

func newTestCatalogHandler() (*CatalogHandler, *fakeCategoryStore, *fakeProductStore) {
	categories := &fakeCategoryStore{categories: map[uuid.UUID]*domain.Category{}}
	products := &fakeProductStore{products: map[uuid.UUID]domain.Product{}}
	return NewCatalogHandler(categories, products, slog.New(slog.DiscardHandler)), categories, products
}

func TestCatalogHandler_CreateCategory(t *testing.T) {
	h, categories, _ := newTestCatalogHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Shirts"}`))
	w := httptest.NewRecorder()
	h.CreateCategory(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, categories.categories, 1)

	// Duplicate name conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Shirts"}`))
	w = httptest.NewRecorder()
	h.CreateCategory(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandler_CreateCategory_EmptyName(t *testing.T) {
	h, _, _ := newTestCatalogHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"  "}`))
	w := httptest.NewRecorder()
	h.CreateCategory(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_CreateProduct(t *testing.T) {
	h, _, products := newTestCatalogHandler()

	body := `{"name":"Shirt","code":"SHIRT-01","price":"100","category_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateProduct(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp productResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "100.00", resp.Price)
	assert.Len(t, products.products, 1)
}

func TestCatalogHandler_CreateProduct_InvalidPrice(t *testing.T) {
	h, _, _ := newTestCatalogHandler()

	for _, price := range []string{"", "abc", "-5"} {
		body := `{"name":"Shirt","price":"` + price + `","category_id":"` + uuid.NewString() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.CreateProduct(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "price %q", price)
	}
}

func TestCatalogHandler_ListProducts_Query(t *testing.T) {
	h, _, products := newTestCatalogHandler()
	seedProduct(t, products, "Blue Shirt", "SHIRT-01", "100")
	seedProduct(t, products, "Socks", "SOCKS-01", "50")

	req := httptest.NewRequest(http.MethodGet, "/api/products?q=shirt", nil)
	w := httptest.NewRecorder()
	h.ListProducts(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []productResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Blue Shirt", resp[0].Name)
}

func TestCatalogHandler_DeleteCategory_NotFound(t *testing.T) {
	h, _, _ := newTestCatalogHandler()

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.DeleteCategory(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
