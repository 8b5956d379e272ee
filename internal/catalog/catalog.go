package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/catshop/storefront/internal/domain"
)

// Catalog is the immutable set of purchasable products for this process.
// It is loaded exactly once at startup; there is no reload path and no
// cross-call caching beyond the value itself. Iteration order is the file
// order, which is also the display order everywhere in the shop.
type Catalog struct {
	products []domain.Product
	byID     map[int64]domain.Product
}

// Load reads and decodes the product catalog file. Any failure here is
// fatal to the caller: a missing or malformed catalog must not result in
// a partially served shop.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}

	return New(products)
}

// New builds a catalog from an already-decoded product list.
func New(products []domain.Product) (*Catalog, error) {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog product %d has no name", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("catalog product %d has negative price %d", p.ID, p.Price)
		}
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("catalog contains duplicate product id %d", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{products: products, byID: byID}, nil
}

// Products returns all products in catalog order. Callers must not modify
// the returned slice.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// Get looks a product up by id.
func (c *Catalog) Get(id int64) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Len() int {
	return len(c.products)
}
