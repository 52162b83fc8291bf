package models

import (
	"crypto/rand"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account roles. Every user carries exactly one role tag; vendor and
// delivery accounts attach their profile rows via Vendor/DeliveryPartner.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleDelivery = "delivery"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:100" json:"full_name"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Role         string     `gorm:"size:20;not null;default:customer" json:"role"`
	IsVerified   bool       `gorm:"not null" json:"is_verified"`
	OTPCode      string     `gorm:"size:6" json:"-"`
	OTPExpiry    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Addresses []Address  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CartItems []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GenerateOTP sets a fresh 6-digit code valid for the given duration
// and returns it so the caller can mail it out.
func (u *User) GenerateOTP(ttl time.Duration) string {
	code := randomDigits(6)
	expiry := time.Now().Add(ttl)
	u.OTPCode = code
	u.OTPExpiry = &expiry
	return code
}

// VerifyOTP marks the user verified and clears the code on success. The
// code is single-use either way the caller commits.
func (u *User) VerifyOTP(otp string) bool {
	if u.OTPCode == "" || u.OTPExpiry == nil {
		return false
	}
	if u.OTPCode != otp || time.Now().After(*u.OTPExpiry) {
		return false
	}
	u.IsVerified = true
	u.OTPCode = ""
	u.OTPExpiry = nil
	return true
}

// RandomDigits returns n digits from crypto/rand. Used for OTP codes
// and admin-issued temporary passwords.
func RandomDigits(n int) string { return randomDigits(n) }

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}
