package http

import (
	"context"
	"net/http"
	"time"

	"github.com/catshop/storefront/internal/session"
)

type ShopHandler struct {
	shopName string
}

func NewShopHandler(shopName string) *ShopHandler {
	return &ShopHandler{shopName: shopName}
}

type ShopStatusDTO struct {
	Shop    string `json:"shop"`
	Message string `json:"message,omitempty"`
}

// Landing serves the shop root. The payment provider redirects back here
// with ?success=true or ?canceled=true; only the presence of the key is
// checked to pick the confirmation message.
func (h *ShopHandler) Landing(w http.ResponseWriter, r *http.Request) {
	status := ShopStatusDTO{Shop: h.shopName}

	query := r.URL.Query()
	switch {
	case query.Has("success"):
		status.Message = "Payment successful! Thank you."
	case query.Has("canceled"):
		status.Message = "Payment canceled."
	}

	respondJSON(w, http.StatusOK, status)
}

type SessionHandler struct {
	manager *session.Manager
	timeout time.Duration
}

func NewSessionHandler(manager *session.Manager, timeout time.Duration) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		timeout: timeout,
	}
}

// End disposes the current session and its cart, and expires the cookie.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "no session bound to request")
		return
	}

	if err := h.manager.End(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "session_unavailable", "failed to end session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}
