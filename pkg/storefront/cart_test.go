package storefront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id uint, name, price string) Product {
	return Product{ID: id, Name: name, Price: decimal.RequireFromString(price), InStock: true}
}

func TestCartStore_AddMergesLines(t *testing.T) {
	cart, err := NewCartStore("")
	require.NoError(t, err)

	require.NoError(t, cart.Add(product(1, "Lamp", "10.00"), 1))
	require.NoError(t, cart.Add(product(2, "Vase", "4.50"), 2))
	require.NoError(t, cart.Add(product(1, "Lamp", "12.00"), 2))
	require.NoError(t, cart.Add(product(3, "Rug", "99.00"), 0))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("12.00")))
	assert.Equal(t, 5, cart.Count())
	assert.Equal(t, "45", cart.Subtotal().String())
}

func TestCartStore_UpdateAndRemove(t *testing.T) {
	cart, err := NewCartStore("")
	require.NoError(t, err)
	require.NoError(t, cart.Add(product(1, "Lamp", "10.00"), 1))
	require.NoError(t, cart.Add(product(2, "Vase", "4.50"), 1))

	require.NoError(t, cart.Update(1, 4))
	assert.Equal(t, 5, cart.Count())

	require.NoError(t, cart.Update(2, 0))
	require.Len(t, cart.Items(), 1)

	require.NoError(t, cart.Update(99, 3))
	require.NoError(t, cart.Remove(99))
	assert.Equal(t, 4, cart.Count())

	require.NoError(t, cart.Remove(1))
	assert.Empty(t, cart.Items())
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCartStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cart.json")

	cart, err := NewCartStore(path)
	require.NoError(t, err)
	require.NoError(t, cart.Add(product(7, "Headphones", "59.99"), 2))
	assert.FileExists(t, path)

	reopened, err := NewCartStore(path)
	require.NoError(t, err)
	require.Len(t, reopened.Items(), 1)
	assert.Equal(t, "Headphones", reopened.Items()[0].Name)
	assert.Equal(t, "119.98", reopened.Subtotal().String())

	require.NoError(t, reopened.Clear())
	assert.NoFileExists(t, path)

	empty, err := NewCartStore(path)
	require.NoError(t, err)
	assert.Zero(t, empty.Count())
}

func TestCartStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewCartStore(path)
	assert.Error(t, err)
}

func TestCartStore_OrderRequest(t *testing.T) {
	cart, err := NewCartStore("")
	require.NoError(t, err)
	require.NoError(t, cart.Add(product(5, "Headphones", "59.99"), 2))
	require.NoError(t, cart.Add(product(8, "Cable", "9.99"), 1))

	shipping := ShippingInfo{Name: "Jane Doe", Email: "jane@example.com", Address: "1 Main Street", City: "Springfield", Zip: "12345", Country: "US"}
	req := cart.OrderRequest(shipping)

	assert.Equal(t, []OrderLine{{ProductID: 5, Quantity: 2}, {ProductID: 8, Quantity: 1}}, req.Items)
	assert.Equal(t, shipping, req.ShippingInfo)
	assert.Nil(t, req.ShippingCost)
}

func TestCartStore_FailedWriteLeavesCartUnchanged(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	path := filepath.Join(dir, "cart.json")

	cart, err := NewCartStore(path)
	require.NoError(t, err)
	require.NoError(t, cart.Add(product(1, "Lamp", "10.00"), 1))

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))

	assert.Error(t, cart.Add(product(2, "Vase", "4.50"), 1))
	assert.Error(t, cart.Update(1, 5))
	assert.Error(t, cart.Remove(1))
	assert.Error(t, cart.Clear())

	require.Len(t, cart.Items(), 1)
	assert.Equal(t, uint(1), cart.Items()[0].ProductID)
	assert.Equal(t, 1, cart.Count())
}
