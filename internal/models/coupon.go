package models

import "time"

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Code              string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description       string     `gorm:"type:text" json:"description"`
	DiscountType      string     `gorm:"size:20;default:percentage" json:"discount_type"`
	DiscountValue     float64    `gorm:"not null" json:"discount_value"`
	MinPurchaseAmount float64    `gorm:"default:0" json:"min_purchase_amount"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"`
	UsageLimit        *int       `json:"usage_limit,omitempty"`
	UsageCount        int        `gorm:"default:0" json:"usage_count"`
	IsActive          bool       `gorm:"not null" json:"is_active"`
	ValidFrom         time.Time  `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (Coupon) TableName() string { return "coupons" }
