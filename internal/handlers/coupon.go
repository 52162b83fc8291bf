package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

/* =========================
   VALIDATION RULES
========================= */

// checkCoupon applies the business rules in their fixed order: expiry,
// usage limit, minimum purchase. Checkout and the preview endpoint both
// call it, so the two cannot disagree.
func checkCoupon(coupon *models.Coupon, cartTotal float64, now time.Time) error {
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(now) {
		return couponError{Reason: "Coupon has expired", Status: http.StatusBadRequest}
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return couponError{Reason: "Coupon usage limit reached", Status: http.StatusBadRequest}
	}
	if cartTotal < coupon.MinPurchaseAmount {
		return couponError{
			Reason: fmt.Sprintf("Minimum purchase amount of %g required", coupon.MinPurchaseAmount),
			Status: http.StatusBadRequest,
		}
	}
	return nil
}

// computeDiscount is only valid after checkCoupon passes. A percentage
// coupon is capped at max_discount_amount when set; a fixed coupon uses
// its value directly.
func computeDiscount(coupon *models.Coupon, cartTotal float64) float64 {
	if coupon.DiscountType == models.DiscountPercentage {
		discount := cartTotal * coupon.DiscountValue / 100
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
		return discount
	}
	return coupon.DiscountValue
}

/* =========================
   PREVIEW
========================= */

// ValidateCoupon previews a discount against a caller-supplied cart
// total without creating an order or touching usage_count.
func ValidateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/coupons/validate"

		var req struct {
			Code      string  `json:"code" binding:"required"`
			CartTotal float64 `json:"cart_total"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var coupon models.Coupon
		if err := db.Where("code = ? AND is_active = ?", req.Code, true).First(&coupon).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Invalid coupon code")
			return
		}

		if err := checkCoupon(&coupon, req.CartTotal, time.Now()); err != nil {
			var cerr couponError
			if errors.As(err, &cerr) {
				respondWithError(c, cerr.Status, route, cerr.Reason)
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		discount := computeDiscount(&coupon, req.CartTotal)

		c.JSON(http.StatusOK, gin.H{
			"valid":           true,
			"code":            coupon.Code,
			"description":     coupon.Description,
			"discount_type":   coupon.DiscountType,
			"discount_value":  coupon.DiscountValue,
			"discount_amount": discount,
			"final_amount":    req.CartTotal - discount,
		})
	}
}

/* =========================
   ADMIN CRUD
========================= */

func GetCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Order("created_at desc").Find(&coupons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}

func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/coupons"
		defer handlePanic(c, route)

		var req struct {
			Code              string   `json:"code" binding:"required"`
			Description       string   `json:"description"`
			DiscountType      string   `json:"discount_type"`
			DiscountValue     float64  `json:"discount_value" binding:"required"`
			MinPurchaseAmount float64  `json:"min_purchase_amount"`
			MaxDiscountAmount *float64 `json:"max_discount_amount"`
			UsageLimit        *int     `json:"usage_limit"`
			ValidUntil        string   `json:"valid_until"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var existing models.Coupon
		if err := db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Coupon code already exists")
			return
		}

		discountType := req.DiscountType
		if discountType == "" {
			discountType = models.DiscountPercentage
		}
		if discountType != models.DiscountPercentage && discountType != models.DiscountFixed {
			respondWithError(c, http.StatusBadRequest, route, "Invalid discount type")
			return
		}

		var validUntil *time.Time
		if req.ValidUntil != "" {
			parsed, err := time.Parse(time.RFC3339, req.ValidUntil)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid date format for valid_until")
				return
			}
			validUntil = &parsed
		}

		coupon := models.Coupon{
			Code:              req.Code,
			Description:       req.Description,
			DiscountType:      discountType,
			DiscountValue:     req.DiscountValue,
			MinPurchaseAmount: req.MinPurchaseAmount,
			MaxDiscountAmount: req.MaxDiscountAmount,
			UsageLimit:        req.UsageLimit,
			IsActive:          true,
			ValidFrom:         time.Now(),
			ValidUntil:        validUntil,
		}

		if err := db.Create(&coupon).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Coupon created successfully",
			"coupon_id": coupon.ID,
		})
	}
}

func UpdateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/coupons/:id"

		couponID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid coupon id")
			return
		}

		var coupon models.Coupon
		if err := db.First(&coupon, couponID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Coupon not found")
			return
		}

		var req struct {
			Description       *string  `json:"description"`
			DiscountValue     *float64 `json:"discount_value"`
			MinPurchaseAmount *float64 `json:"min_purchase_amount"`
			MaxDiscountAmount *float64 `json:"max_discount_amount"`
			UsageLimit        *int     `json:"usage_limit"`
			IsActive          *bool    `json:"is_active"`
			ValidUntil        *string  `json:"valid_until"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Description != nil {
			coupon.Description = *req.Description
		}
		if req.DiscountValue != nil {
			coupon.DiscountValue = *req.DiscountValue
		}
		if req.MinPurchaseAmount != nil {
			coupon.MinPurchaseAmount = *req.MinPurchaseAmount
		}
		if req.MaxDiscountAmount != nil {
			coupon.MaxDiscountAmount = req.MaxDiscountAmount
		}
		if req.UsageLimit != nil {
			coupon.UsageLimit = req.UsageLimit
		}
		if req.IsActive != nil {
			coupon.IsActive = *req.IsActive
		}
		if req.ValidUntil != nil && *req.ValidUntil != "" {
			parsed, err := time.Parse(time.RFC3339, *req.ValidUntil)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid date format for valid_until")
				return
			}
			coupon.ValidUntil = &parsed
		}

		if err := db.Save(&coupon).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Coupon updated successfully"})
	}
}

// DeleteCoupon deactivates; coupon rows are never removed so past
// orders keep a resolvable code.
func DeleteCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/coupons/:id"

		couponID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid coupon id")
			return
		}

		var coupon models.Coupon
		if err := db.First(&coupon, couponID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Coupon not found")
			return
		}

		if err := db.Model(&coupon).Update("is_active", false).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated successfully"})
	}
}
