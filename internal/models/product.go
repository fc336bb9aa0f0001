package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Name          string           `gorm:"not null" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	SKU           string           `gorm:"uniqueIndex;size:64;not null" json:"sku"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale_price,omitempty"`
	StockQuantity int              `gorm:"not null;default:0" json:"stock_quantity"`
	Featured      bool             `gorm:"not null;default:false" json:"featured"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Categories    []Category       `gorm:"many2many:product_categories" json:"categories"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

// EffectivePrice is the amount a line item snapshots at order time.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice
	}
	return p.Price
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	AltText   string `json:"alt_text"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}
