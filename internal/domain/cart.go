package domain

// LineItem is one catalog entry plus the quantity of it currently in the
// cart. Display fields are snapshotted at add-time so the cart renders
// even if the catalog entry changes or disappears.
type LineItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price * quantity for this line.
func (li LineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}
