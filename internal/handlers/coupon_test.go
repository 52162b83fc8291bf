package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func TestComputeDiscountPercentageCapped(t *testing.T) {
	cap := 500.0
	coupon := &models.Coupon{
		DiscountType:      models.DiscountPercentage,
		DiscountValue:     50,
		MaxDiscountAmount: &cap,
	}
	got := computeDiscount(coupon, 10000)
	if got != 500 {
		t.Fatalf("discount = %v, want 500 (capped)", got)
	}
}

func TestComputeDiscountPercentageUncapped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
	}
	got := computeDiscount(coupon, 2000)
	if got != 200 {
		t.Fatalf("discount = %v, want 200", got)
	}
}

func TestComputeDiscountFixed(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountFixed,
		DiscountValue: 150,
	}
	got := computeDiscount(coupon, 2000)
	if got != 150 {
		t.Fatalf("discount = %v, want 150", got)
	}
}

func TestCheckCouponExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	coupon := &models.Coupon{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		ValidUntil:    &past,
	}
	err := checkCoupon(coupon, 1000, time.Now())
	if err == nil {
		t.Fatal("expected error for expired coupon")
	}
	if err.Error() != "Coupon has expired" {
		t.Fatalf("error = %q, want expiry message", err.Error())
	}
}

func TestCheckCouponUsageLimit(t *testing.T) {
	limit := 5
	coupon := &models.Coupon{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		UsageLimit:    &limit,
		UsageCount:    5,
	}
	err := checkCoupon(coupon, 1000, time.Now())
	if err == nil {
		t.Fatal("expected error when usage count reaches the limit")
	}
	if err.Error() != "Coupon usage limit reached" {
		t.Fatalf("error = %q, want usage limit message", err.Error())
	}
}

func TestCheckCouponMinPurchase(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:      models.DiscountFixed,
		DiscountValue:     100,
		MinPurchaseAmount: 500,
	}
	if err := checkCoupon(coupon, 499, time.Now()); err == nil {
		t.Fatal("expected error below minimum purchase")
	}
	if err := checkCoupon(coupon, 500, time.Now()); err != nil {
		t.Fatalf("unexpected error at exact minimum: %v", err)
	}
}

// Expiry is reported before the usage limit when both fail.
func TestCheckCouponOrdering(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	limit := 1
	coupon := &models.Coupon{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		ValidUntil:    &past,
		UsageLimit:    &limit,
		UsageCount:    1,
	}
	err := checkCoupon(coupon, 1000, time.Now())
	if err == nil || err.Error() != "Coupon has expired" {
		t.Fatalf("error = %v, want expiry reported first", err)
	}
}

func TestValidateCouponUnknownCode(t *testing.T) {
	db := newTestDB(t)

	r := newCouponRouter(db)
	w := doJSON(t, r, http.MethodPost, "/api/coupons/validate", map[string]interface{}{
		"code":       "NOPE",
		"cart_total": 1000,
	})
	wantStatus(t, w, http.StatusNotFound)
}

func TestValidateCouponDoesNotTouchUsage(t *testing.T) {
	db := newTestDB(t)

	coupon := models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon: %v", err)
	}

	r := newCouponRouter(db)
	w := doJSON(t, r, http.MethodPost, "/api/coupons/validate", map[string]interface{}{
		"code":       "SAVE10",
		"cart_total": 1000,
	})
	wantStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["discount_amount"].(float64) != 100 {
		t.Fatalf("discount_amount = %v, want 100", body["discount_amount"])
	}
	if body["final_amount"].(float64) != 900 {
		t.Fatalf("final_amount = %v, want 900", body["final_amount"])
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if reloaded.UsageCount != 0 {
		t.Fatalf("usage_count = %d after preview, want 0", reloaded.UsageCount)
	}
}

func newCouponRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/api/coupons/validate", asUser(1), ValidateCoupon(db))
	return r
}
