package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/catshop/storefront/internal/cart"
	"github.com/catshop/storefront/internal/catalog"
	"github.com/catshop/storefront/internal/checkout"
	"github.com/catshop/storefront/internal/session"
)

type RouterConfig struct {
	ShopName       string
	RequestTimeout time.Duration
}

// NewRouter wires the HTTP surface: the handlers are the command dispatch
// layer over the cart store and checkout builder, which know nothing
// about how events reach them.
func NewRouter(
	cfg RouterConfig,
	cat *catalog.Catalog,
	carts cart.Store,
	builder *checkout.Builder,
	sessions *session.Manager,
	log *logrus.Logger,
) http.Handler {
	shopHandler := NewShopHandler(cfg.ShopName)
	productHandler := NewProductHandler(cat)
	cartHandler := NewCartHandler(carts, cat, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(builder, cfg.RequestTimeout)
	sessionHandler := NewSessionHandler(sessions, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(sessions))

	r.Get("/", shopHandler.Landing)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.Get)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Create)
		r.Delete("/session", sessionHandler.End)
	})

	return r
}
