// pkg/storefront/cart.go
package storefront

import (
	"sync"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is the displayed price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartStore is the client-side cart. It loads from its file on construction and
// writes back on every change; a change that cannot be written is not applied.
// Prices here are for display only; the server prices orders from the catalog.
type CartStore struct {
	mu    sync.RWMutex
	path  string
	items []CartItem
}

// NewCartStore opens the cart persisted at path. An empty path keeps the cart in memory.
func NewCartStore(path string) (*CartStore, error) {
	s := &CartStore{path: path}
	if err := loadJSON(path, &s.items); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CartStore) Items() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// Add puts quantity units of product in the cart, merging with an existing line.
func (s *CartStore) Add(product Product, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.snapshot()
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].Quantity += quantity
			items[i].Price = product.Price
			return s.commit(items)
		}
	}

	items = append(items, CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	return s.commit(items)
}

// Update sets the quantity of a line; anything below 1 removes it.
func (s *CartStore) Update(productID uint, quantity int) error {
	if quantity < 1 {
		return s.Remove(productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.snapshot()
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return s.commit(items)
		}
	}
	return nil
}

func (s *CartStore) Remove(productID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ProductID == productID {
			items := make([]CartItem, 0, len(s.items)-1)
			items = append(items, s.items[:i]...)
			items = append(items, s.items[i+1:]...)
			return s.commit(items)
		}
	}
	return nil
}

func (s *CartStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(nil)
}

// Count is the total number of units across all lines.
func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subtotal := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// OrderRequest converts the cart into the body for POST /orders.
func (s *CartStore) OrderRequest(shipping ShippingInfo) OrderRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req := OrderRequest{
		Items:        make([]OrderLine, 0, len(s.items)),
		ShippingInfo: shipping,
	}
	for _, item := range s.items {
		req.Items = append(req.Items, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return req
}

func (s *CartStore) snapshot() []CartItem {
	items := make([]CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// commit writes items to disk and only then makes them the cart's contents.
func (s *CartStore) commit(items []CartItem) error {
	var err error
	if len(items) == 0 {
		err = removeFile(s.path)
	} else {
		err = saveJSON(s.path, items)
	}
	if err != nil {
		return err
	}

	s.items = items
	return nil
}
