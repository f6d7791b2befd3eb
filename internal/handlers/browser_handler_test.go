package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/catalog-browser/internal/middleware"
	"github.com/Lixing-Zhang/catalog-browser/internal/models"
	"github.com/Lixing-Zhang/catalog-browser/internal/repository"
	"github.com/Lixing-Zhang/catalog-browser/internal/service"
	"github.com/Lixing-Zhang/catalog-browser/internal/view"
	"github.com/Lixing-Zhang/catalog-browser/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	products []models.Product
	err      error
	searches []string
}

func (f *fakeCatalog) FetchAll(ctx context.Context) (*models.ProductListResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProductListResult{Products: f.products, Total: len(f.products)}, nil
}

func (f *fakeCatalog) Search(ctx context.Context, term string) (*models.ProductListResult, error) {
	f.searches = append(f.searches, term)
	if strings.TrimSpace(term) == "" {
		return f.FetchAll(ctx)
	}
	if f.err != nil {
		return nil, f.err
	}
	matches := view.Filter(f.products, term)
	return &models.ProductListResult{Products: matches, Total: len(matches)}, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: []models.Product{
		{ID: 1, Title: "Phone", Category: "electronics", Price: decimal.NewFromInt(500)},
		{ID: 2, Title: "Shirt", Category: "apparel", Price: decimal.NewFromInt(20)},
	}}
}

// setupRouter wires the handler the same way the server does
func setupRouter(catalog view.Fetcher) (*chi.Mux, *service.BrowserService) {
	log := logger.New("error")
	svc := service.NewBrowserService(repository.NewInMemorySessionRepository(), catalog, log)
	handler := NewBrowserHandler(svc, log)

	r := chi.NewRouter()
	r.Post("/api/sessions", handler.Mount)
	r.Route("/api/sessions/{sessionId}", func(r chi.Router) {
		r.Use(middleware.Session(svc, log))
		r.Get("/", handler.GetView)
		r.Delete("/", handler.Unmount)
		r.Put("/search-term", handler.SetSearchTerm)
		r.Post("/search", handler.Search)
		r.Post("/clear", handler.Clear)
		r.Post("/cart", handler.AddToCart)
		r.Delete("/cart/{productId}", handler.RemoveFromCart)
	})

	return r, svc
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("failed to encode request: %v", err)
			}
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) view.View {
	t.Helper()

	var v view.View
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	return v
}

func mount(t *testing.T, r http.Handler) string {
	t.Helper()

	w := do(t, r, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var resp MountResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode mount response: %v", err)
	}
	return resp.ID
}

func TestMount(t *testing.T) {
	r, _ := setupRouter(testCatalog())

	w := do(t, r, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var resp MountResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID == "" {
		t.Error("expected a session id")
	}
	if resp.View.Loading {
		t.Error("expected loading to be false after mount")
	}
	if len(resp.View.Products) != 2 {
		t.Errorf("expected 2 products, got %d", len(resp.View.Products))
	}
	if resp.View.CartTotalDisplay != "0.00" {
		t.Errorf("expected empty cart total 0.00, got %s", resp.View.CartTotalDisplay)
	}
}

func TestMount_CatalogDown(t *testing.T) {
	r, _ := setupRouter(&fakeCatalog{err: errors.New("connection refused")})

	w := do(t, r, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var resp MountResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.View.Loading {
		t.Error("expected loading to be false after failed fetch")
	}
	if len(resp.View.Products) != 0 {
		t.Errorf("expected no products, got %d", len(resp.View.Products))
	}
}

func TestSearchTermFiltersLocally(t *testing.T) {
	catalog := testCatalog()
	r, _ := setupRouter(catalog)
	id := mount(t, r)

	w := do(t, r, http.MethodPut, "/api/sessions/"+id+"/search-term", map[string]string{"term": "phone"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	v := decodeView(t, w)
	if v.SearchTerm != "phone" {
		t.Errorf("expected search term 'phone', got %q", v.SearchTerm)
	}
	if len(v.Products) != 1 || v.Products[0].ID != 1 {
		t.Errorf("expected only product 1, got %+v", v.Products)
	}
	if len(catalog.searches) != 0 {
		t.Errorf("typing must not search remotely, got %v", catalog.searches)
	}
}

func TestSearchTerm_InvalidBody(t *testing.T) {
	r, _ := setupRouter(testCatalog())
	id := mount(t, r)

	testCases := []struct {
		name string
		body interface{}
	}{
		{"malformed json", `{"term":`},
		{"missing term", map[string]string{}},
		{"wrong type", map[string]int{"term": 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPut, "/api/sessions/"+id+"/search-term", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestSearchAndClear(t *testing.T) {
	catalog := testCatalog()
	r, _ := setupRouter(catalog)
	id := mount(t, r)

	do(t, r, http.MethodPut, "/api/sessions/"+id+"/search-term", map[string]string{"term": "shirt"})

	w := do(t, r, http.MethodPost, "/api/sessions/"+id+"/search", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	v := decodeView(t, w)
	if len(v.Products) != 1 || v.Products[0].ID != 2 {
		t.Errorf("expected only product 2, got %+v", v.Products)
	}
	if len(catalog.searches) != 1 || catalog.searches[0] != "shirt" {
		t.Errorf("expected one remote search for 'shirt', got %v", catalog.searches)
	}

	w = do(t, r, http.MethodPost, "/api/sessions/"+id+"/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	v = decodeView(t, w)
	if v.SearchTerm != "shirt" {
		t.Errorf("clear must keep the search term, got %q", v.SearchTerm)
	}
	if len(v.Products) != 1 {
		t.Errorf("expected view still filtered to 1 product, got %d", len(v.Products))
	}
}

func TestCartFlow(t *testing.T) {
	r, _ := setupRouter(testCatalog())
	id := mount(t, r)

	for _, productID := range []int64{1, 2, 1} {
		w := do(t, r, http.MethodPost, "/api/sessions/"+id+"/cart", AddToCartRequest{ProductID: productID})
		if w.Code != http.StatusOK {
			t.Fatalf("add %d: expected status 200, got %d", productID, w.Code)
		}
	}

	v := decodeView(t, do(t, r, http.MethodGet, "/api/sessions/"+id, nil))
	if v.CartCount != 2 {
		t.Errorf("expected 2 cart items, got %d", v.CartCount)
	}
	if v.CartTotalDisplay != "520.00" {
		t.Errorf("expected total 520.00, got %s", v.CartTotalDisplay)
	}
	for _, card := range v.Products {
		if !card.InCart {
			t.Errorf("expected product %d to be marked in cart", card.ID)
		}
	}

	w := do(t, r, http.MethodDelete, "/api/sessions/"+id+"/cart/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	v = decodeView(t, w)
	if v.CartCount != 1 || v.CartTotalDisplay != "20.00" {
		t.Errorf("expected 1 item totalling 20.00, got %d / %s", v.CartCount, v.CartTotalDisplay)
	}

	w = do(t, r, http.MethodDelete, "/api/sessions/"+id+"/cart/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("removing an absent product: expected status 200, got %d", w.Code)
	}
	if v := decodeView(t, w); v.CartCount != 1 {
		t.Errorf("expected cart unchanged, got %d items", v.CartCount)
	}
}

func TestAddToCart_Errors(t *testing.T) {
	r, _ := setupRouter(testCatalog())
	id := mount(t, r)

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{"unknown product", AddToCartRequest{ProductID: 99}, http.StatusNotFound, "Product not found"},
		{"zero id", AddToCartRequest{ProductID: 0}, http.StatusBadRequest, "Invalid request body"},
		{"negative id", AddToCartRequest{ProductID: -1}, http.StatusBadRequest, "Invalid request body"},
		{"malformed json", "{", http.StatusBadRequest, "Invalid request body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/sessions/"+id+"/cart", tc.body)
			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}

			var response map[string]string
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if response["error"] != tc.expectedError {
				t.Errorf("expected error %q, got %q", tc.expectedError, response["error"])
			}
		})
	}
}

func TestRemoveFromCart_InvalidID(t *testing.T) {
	r, _ := setupRouter(testCatalog())
	id := mount(t, r)

	for _, productID := range []string{"invalid", "12.34", "abc@123"} {
		t.Run(productID, func(t *testing.T) {
			w := do(t, r, http.MethodDelete, "/api/sessions/"+id+"/cart/"+productID, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for ID %s, got %d", productID, w.Code)
			}
		})
	}
}

func TestUnmount(t *testing.T) {
	r, svc := setupRouter(testCatalog())
	id := mount(t, r)

	w := do(t, r, http.MethodDelete, "/api/sessions/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if n := svc.ActiveSessions(context.Background()); n != 0 {
		t.Errorf("expected no active sessions, got %d", n)
	}

	w = do(t, r, http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after unmount, got %d", w.Code)
	}
}
