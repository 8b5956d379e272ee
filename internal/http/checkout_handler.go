package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/catshop/storefront/internal/checkout"
	"github.com/catshop/storefront/internal/payment"
)

type CheckoutHandler struct {
	builder *checkout.Builder
	timeout time.Duration
}

func NewCheckoutHandler(builder *checkout.Builder, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		builder: builder,
		timeout: timeout,
	}
}

type CheckoutResponseDTO struct {
	CheckoutURL string `json:"checkout_url"`
	Amount      int64  `json:"amount"`
	State       string `json:"state"`
}

// POST /api/v1/checkout
//
// A failure leaves the cart untouched, so the caller can surface the
// message and let the user try again.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "no session bound to request")
		return
	}

	result, err := h.builder.Create(ctx, sessionID)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		CheckoutURL: result.URL,
		Amount:      result.Amount,
		State:       result.State.String(),
	})
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cart is empty, nothing to checkout")
		return
	}

	var providerErr *payment.ProviderError
	if errors.As(err, &providerErr) {
		respondError(w, http.StatusBadGateway, "payment_provider_error",
			"Failed to create checkout session: "+providerErr.Message)
		return
	}

	respondError(w, http.StatusInternalServerError, "internal_error", "failed to create checkout session")
}
