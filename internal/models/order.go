// internal/models/order.go
package models

import (
	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	OrderNumber      string          `json:"order_number" gorm:"uniqueIndex;size:40;not null"`
	UserID           uint            `json:"user_id" gorm:"not null;index"`
	ShippingName     string          `json:"shipping_name" gorm:"size:255;not null"`
	ShippingEmail    string          `json:"shipping_email" gorm:"size:255;not null"`
	ShippingAddress  string          `json:"shipping_address" gorm:"size:500;not null"`
	ShippingCity     string          `json:"shipping_city" gorm:"size:100;not null"`
	ShippingZip      string          `json:"shipping_zip" gorm:"size:20;not null"`
	ShippingCountry  string          `json:"shipping_country" gorm:"size:100;not null"`
	Subtotal         decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Shipping         decimal.Decimal `json:"shipping" gorm:"type:decimal(12,2);not null;default:0"`
	Total            decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentReference string          `json:"payment_reference,omitempty" gorm:"size:255"`

	// Relationships
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	BaseModel
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// LineTotal is the snapshotted price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
