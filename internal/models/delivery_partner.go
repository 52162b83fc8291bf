package models

import "time"

// DeliveryPartner must be verified by an admin and active before it can
// log in or accept assignments.
type DeliveryPartner struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName   string    `gorm:"size:100" json:"full_name"`
	Phone      string    `gorm:"size:20" json:"phone"`
	IsVerified bool      `gorm:"not null" json:"is_verified"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	User User `json:"-"`
}

func (DeliveryPartner) TableName() string { return "delivery_partners" }
