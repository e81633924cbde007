// pkg/storefront/types.go
package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses as reported by the API.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

const RoleAdmin = "ADMIN"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Brand struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *uint           `json:"category_id"`
	BrandID     *uint           `json:"brand_id"`
	Image       string          `json:"image"`
	BgColor     string          `json:"bg_color"`
	Featured    bool            `json:"featured"`
	InStock     bool            `json:"in_stock"`
	Rating      decimal.Decimal `json:"rating"`
	Reviews     int             `json:"reviews"`
	Category    *Category       `json:"category,omitempty"`
	Brand       *Brand          `json:"brand,omitempty"`
}

type OrderItem struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *Product        `json:"product,omitempty"`
}

type Order struct {
	ID              uint            `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          uint            `json:"user_id"`
	Status          string          `json:"status"`
	ShippingName    string          `json:"shipping_name"`
	ShippingEmail   string          `json:"shipping_email"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingCity    string          `json:"shipping_city"`
	ShippingZip     string          `json:"shipping_zip"`
	ShippingCountry string          `json:"shipping_country"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
