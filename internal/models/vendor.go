package models

import "time"

// Vendor is the seller profile attached 1:1 to a user with the vendor
// role. Vendors must be approved and active before they can log in.
type Vendor struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName    string    `gorm:"size:200;not null" json:"business_name"`
	BusinessType    string    `gorm:"size:100" json:"business_type"`
	GSTNumber       string    `gorm:"size:50" json:"gst_number"`
	PANNumber       string    `gorm:"size:50" json:"pan_number"`
	BusinessAddress string    `gorm:"size:300" json:"business_address"`
	City            string    `gorm:"size:100" json:"city"`
	State           string    `gorm:"size:100" json:"state"`
	Pincode         string    `gorm:"size:20" json:"pincode"`
	Phone           string    `gorm:"size:20" json:"phone"`
	Website         string    `gorm:"size:200" json:"website"`
	Description     string    `gorm:"type:text" json:"description"`
	IsApproved      bool      `gorm:"not null" json:"is_approved"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`

	User     User      `json:"-"`
	Products []Product `json:"-"`
}

func (Vendor) TableName() string { return "vendors" }

// VendorCategory records an admin category assignment for a vendor.
type VendorCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VendorID   uint      `gorm:"index;not null" json:"vendor_id"`
	CategoryID uint      `gorm:"not null" json:"category_id"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	Category Category `json:"-"`
}

func (VendorCategory) TableName() string { return "vendor_categories" }
