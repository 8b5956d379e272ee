package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/catshop/storefront/internal/cart"
	"github.com/catshop/storefront/internal/catalog"
)

type CartHandler struct {
	carts   cart.Store
	catalog *catalog.Catalog
	timeout time.Duration
}

func NewCartHandler(carts cart.Store, cat *catalog.Catalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: cat,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type CartItemDTO struct {
	Product  ProductDTO `json:"product"`
	Quantity int64      `json:"quantity"`
	Subtotal int64      `json:"subtotal"`
}

type CartResponseDTO struct {
	Items []CartItemDTO `json:"items"`
	Total int64         `json:"total"`
}

// Get returns the cart joined against the catalog: line items in catalog
// order plus the exact integer total in minor currency units.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "no session bound to request")
		return
	}

	entries, err := h.carts.Entries(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to read cart")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(entries))
}

// AddItem adds one unit of a product to the session cart. The id is not
// checked against the catalog: an unknown id is accepted and simply never
// shows up in the joined view.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "no session bound to request")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := h.carts.Add(ctx, sessionID, req.ProductID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to update cart")
		return
	}

	entries, err := h.carts.Entries(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to read cart")
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse(entries))
}

// RemoveItem removes one unit of a product. Removing a product that is
// not in the cart is a no-op and still returns the current cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "no session bound to request")
		return
	}

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.carts.Remove(ctx, sessionID, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to update cart")
		return
	}

	entries, err := h.carts.Entries(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to read cart")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(entries))
}

// Clear empties the session cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "no session bound to request")
		return
	}

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: []CartItemDTO{}})
}

func (h *CartHandler) cartResponse(entries map[int64]int64) CartResponseDTO {
	items := cart.Items(h.catalog, entries)

	dtos := make([]CartItemDTO, 0, len(items))
	for _, li := range items {
		dtos = append(dtos, CartItemDTO{
			Product: ProductDTO{
				ID:       li.Product.ID,
				Name:     li.Product.Name,
				Price:    li.Product.Price,
				ImageURL: li.Product.ImageURL,
			},
			Quantity: li.Quantity,
			Subtotal: li.Subtotal(),
		})
	}

	return CartResponseDTO{
		Items: dtos,
		Total: cart.Total(items),
	}
}
