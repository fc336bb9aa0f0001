package models

import (
	"time"

	"gorm.io/gorm"
)

// Review belongs to a product and optionally to a customer. Guest reviews
// carry the reviewer's name and email instead of a customer reference.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"index;not null" json:"product_id"`
	Product    Product        `json:"-"`
	CustomerID *uint          `gorm:"index" json:"customer_id,omitempty"`
	GuestName  string         `json:"guest_name,omitempty"`
	GuestEmail string         `json:"guest_email,omitempty"`
	Rating     int            `gorm:"not null" json:"rating"`
	Comment    string         `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
