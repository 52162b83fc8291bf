package models

import "time"

// Order statuses. Pending moves forward through Confirmed, Processing
// and Shipped to the terminal Delivered; Cancelled is terminal from any
// non-terminal state. Completed is an admin-only bookkeeping state used
// by revenue reporting.
const (
	StatusPending    = "Pending"
	StatusConfirmed  = "Confirmed"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusCompleted  = "Completed"
)

const (
	PaymentPending = "Pending"
	PaymentSuccess = "Success"
	PaymentFailed  = "Failed"
)

const (
	DeliveryPending = "Pending"
	DeliveryOutFor  = "Out for Delivery"
	DeliveryDone    = "Delivered"
)

type Order struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	AddressID         *uint     `json:"address_id,omitempty"`
	TotalAmount       float64   `gorm:"not null" json:"total_amount"`
	DiscountAmount    float64   `gorm:"default:0" json:"discount_amount"`
	FinalAmount       float64   `gorm:"not null" json:"final_amount"`
	CouponCode        string    `gorm:"size:50" json:"coupon_code,omitempty"`
	Status            string    `gorm:"size:50;default:Pending" json:"status"`
	PaymentStatus     string    `gorm:"size:50;default:Pending" json:"payment_status"`
	DeliveryPartnerID *uint     `gorm:"index" json:"delivery_partner_id,omitempty"`
	DeliveryStatus    string    `gorm:"size:50;default:Pending" json:"delivery_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Items   []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	User    User        `json:"-"`
	Address *Address    `json:"-"`
}

func (Order) TableName() string { return "orders" }

// IsTerminal reports whether the order may be hard-deleted.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// OrderItem freezes the product price at purchase time; later price
// changes never touch it.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`

	Product Product `json:"-"`
}

func (OrderItem) TableName() string { return "order_items" }
