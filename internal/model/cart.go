package model

// Product represents a marketplace listing as served by the commerce
// API. Quantity is the remaining stock at fetch time.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	IsAvailable bool   `json:"isAvailable"`
	SellerName  string `json:"sellerName,omitempty"`
}

// CartItem is one row of the server-owned cart. The server assigns the
// item id; UnitPrice is a snapshot taken when the item was added.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice int64   `json:"unitPrice"`
	Product   Product `json:"product"`
}

// Cart is the authoritative server cart. The client only ever holds a
// mirror of it.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

// TotalItemCount returns the sum of all item quantities, zero for an
// empty cart.
func (c Cart) TotalItemCount() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// Contains reports whether any item references the given product.
func (c Cart) Contains(productID string) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Item returns the item with the given id.
func (c Cart) Item(itemID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return CartItem{}, false
}
