package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
	PaymentFailed PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Number          string          `gorm:"uniqueIndex;size:32;not null" json:"number"`
	CustomerID      uint            `gorm:"index;not null" json:"customer_id"`
	Customer        Customer        `json:"-"`
	Status          OrderStatus     `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"size:16;not null;default:'UNPAID'" json:"payment_status"`
	PaymentMethod   string          `gorm:"size:16" json:"payment_method,omitempty"`
	PaymentRef      string          `gorm:"size:64;index" json:"-"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	ShippingName    string          `gorm:"not null" json:"shipping_name"`
	ShippingPhone   string          `gorm:"not null" json:"shipping_phone"`
	ShippingAddress string          `gorm:"not null" json:"shipping_address"`
	Note            string          `gorm:"type:text" json:"note,omitempty"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// OrderItem is a hard row: created inside the order transaction, never
// deleted on its own. Price is the per-unit snapshot taken at order time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Product   Product         `json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}
