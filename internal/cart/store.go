package cart

import (
	"context"

	"github.com/catshop/storefront/internal/catalog"
	"github.com/catshop/storefront/internal/domain"
)

// Store holds per-session cart state: a mapping from product id to a
// positive quantity. Consumers define this interface, not the backends.
//
// Invariants every implementation must keep:
//   - no entry ever has quantity <= 0; removing the last unit deletes
//     the key instead of storing zero
//   - Remove of an id that is not in the cart is a no-op, not an error
//   - Add does not validate the id against the catalog; an unknown id is
//     accepted and simply never survives the catalog-driven join
type Store interface {
	Add(ctx context.Context, sessionID string, productID int64) error
	Remove(ctx context.Context, sessionID string, productID int64) error
	Entries(ctx context.Context, sessionID string) (map[int64]int64, error)
	Clear(ctx context.Context, sessionID string) error
}

// Items joins cart entries against the catalog into line items. The
// catalog drives the iteration, so display order is catalog order rather
// than insertion order. Entries whose product id is missing from the
// catalog are excluded from the result.
func Items(cat *catalog.Catalog, entries map[int64]int64) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(entries))
	for _, p := range cat.Products() {
		if qty, ok := entries[p.ID]; ok {
			items = append(items, domain.LineItem{Product: p, Quantity: qty})
		}
	}
	return items
}

// Total sums price * quantity over the given line items as an exact
// integer in minor currency units.
func Total(items []domain.LineItem) int64 {
	var total int64
	for _, li := range items {
		total += li.Subtotal()
	}
	return total
}
