package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/catshop/storefront/internal/cart"
	"github.com/catshop/storefront/internal/catalog"
	"github.com/catshop/storefront/internal/domain"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]domain.Product{
		{ID: 1, Name: "Cat Mug", Price: 500, ImageURL: "https://example.com/mug.jpg"},
		{ID: 2, Name: "Cat Hat", Price: 1200, ImageURL: "https://example.com/hat.jpg"},
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return cat
}

func withSession(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

func newCartRouter(handler *CartHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", handler.Get)
	r.Delete("/cart", handler.Clear)
	r.Post("/cart/items", handler.AddItem)
	r.Delete("/cart/items/{product_id}", handler.RemoveItem)
	return r
}

func TestAddItem_Success(t *testing.T) {
	handler := NewCartHandler(cart.NewMemoryStore(), newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/cart/items", strings.NewReader(`{"product_id": 1}`)), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(response.Items))
	}
	if response.Items[0].Product.Name != "Cat Mug" {
		t.Errorf("Expected product name 'Cat Mug', got '%s'", response.Items[0].Product.Name)
	}
	if response.Items[0].Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", response.Items[0].Quantity)
	}
	if response.Total != 500 {
		t.Errorf("Expected total 500, got %d", response.Total)
	}
}

func TestAddItem_InvalidBody(t *testing.T) {
	handler := NewCartHandler(cart.NewMemoryStore(), newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/cart/items", strings.NewReader(`not json`)), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestAddItem_NonPositiveProductID(t *testing.T) {
	handler := NewCartHandler(cart.NewMemoryStore(), newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/cart/items", strings.NewReader(`{"product_id": 0}`)), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestAddItem_UnknownIDAcceptedButNeverJoined(t *testing.T) {
	store := cart.NewMemoryStore()
	handler := NewCartHandler(store, newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/cart/items", strings.NewReader(`{"product_id": 99}`)), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// The entry exists in the store but the catalog-driven join hides it.
	if len(response.Items) != 0 {
		t.Errorf("Expected 0 joined items, got %d", len(response.Items))
	}
	entries, err := store.Entries(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}
	if entries[99] != 1 {
		t.Errorf("Expected stored quantity 1 for unknown id, got %d", entries[99])
	}
}

func TestGetCart_CatalogOrder(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	if err := store.Add(ctx, "s1", 2); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "s1", 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "s1", 2); err != nil {
		t.Fatal(err)
	}

	handler := NewCartHandler(store, newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/cart", nil), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(response.Items))
	}
	if response.Items[0].Product.ID != 1 || response.Items[0].Quantity != 1 {
		t.Errorf("Expected {id:1, qty:1} first, got {id:%d, qty:%d}",
			response.Items[0].Product.ID, response.Items[0].Quantity)
	}
	if response.Items[1].Product.ID != 2 || response.Items[1].Quantity != 2 {
		t.Errorf("Expected {id:2, qty:2} second, got {id:%d, qty:%d}",
			response.Items[1].Product.ID, response.Items[1].Quantity)
	}
	if response.Total != 2900 {
		t.Errorf("Expected total 2900, got %d", response.Total)
	}
}

func TestRemoveItem_DecrementsQuantity(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	if err := store.Add(ctx, "s1", 2); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "s1", 2); err != nil {
		t.Fatal(err)
	}

	handler := NewCartHandler(store, newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/cart/items/2", nil), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Items) != 1 || response.Items[0].Quantity != 1 {
		t.Errorf("Expected one item with quantity 1, got %+v", response.Items)
	}
}

func TestRemoveItem_AbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	if err := store.Add(ctx, "s1", 1); err != nil {
		t.Fatal(err)
	}

	handler := NewCartHandler(store, newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/cart/items/2", nil), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Items) != 1 || response.Items[0].Product.ID != 1 {
		t.Errorf("Expected cart unchanged, got %+v", response.Items)
	}
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	if err := store.Add(ctx, "s1", 1); err != nil {
		t.Fatal(err)
	}

	handler := NewCartHandler(store, newTestCatalog(t), 5*time.Second)
	router := newCartRouter(handler)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/cart", nil), "s1")

	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	entries, err := store.Entries(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty cart, got %v", entries)
	}
}
