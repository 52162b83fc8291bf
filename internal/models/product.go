package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"index;not null" json:"category_id"`
	VendorID    *uint     `gorm:"index" json:"vendor_id,omitempty"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Unit        string    `gorm:"size:50" json:"unit"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	IsApproved  bool      `gorm:"not null" json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category Category `json:"-"`
	Vendor   *Vendor  `json:"-"`
}

func (Product) TableName() string { return "products" }
