package domain

// Product is an immutable catalog entry. Price is an integer amount in
// minor currency units (cents); totals must never pass through floats.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"image"`
}

// LineItem is a catalog product paired with the quantity requested in a
// cart. Derived transiently by joining cart entries against the catalog.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// Subtotal returns the exact integer price of the line in minor units.
func (li LineItem) Subtotal() int64 {
	return li.Product.Price * li.Quantity
}
