// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Image       string `json:"image,omitempty" gorm:"size:500"`
}

type Brand struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Image       string `json:"image,omitempty" gorm:"size:500"`
}

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;index"`
	CategoryID  *uint           `json:"category_id" gorm:"index"`
	BrandID     *uint           `json:"brand_id" gorm:"index"`
	Image       string          `json:"image" gorm:"size:500"`
	BgColor     string          `json:"bg_color" gorm:"size:20"`
	Featured    bool            `json:"featured" gorm:"not null;index"`
	InStock     bool            `json:"in_stock" gorm:"not null;index"`
	Rating      decimal.Decimal `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Reviews     int             `json:"reviews" gorm:"default:0"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Brand    *Brand    `json:"brand,omitempty" gorm:"foreignKey:BrandID;constraint:OnDelete:RESTRICT"`
}
