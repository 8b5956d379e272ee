package http

import (
	"net/http"

	"github.com/catshop/storefront/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Catalog
}

func NewProductHandler(cat *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

type ProductDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"image"`
}

type ProductsResponse struct {
	Products []ProductDTO `json:"products"`
}

// Get lists the catalog in catalog order.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ProductDTO{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			ImageURL: p.ImageURL,
		})
	}

	respondJSON(w, http.StatusOK, ProductsResponse{Products: dtos})
}
