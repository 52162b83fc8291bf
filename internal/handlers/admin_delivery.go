package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func AdminGetDeliveryPartners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/delivery-partners"

		var partners []models.DeliveryPartner
		if err := db.Preload("User").Order("created_at desc").Find(&partners).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		out := make([]gin.H, 0, len(partners))
		for _, p := range partners {
			out = append(out, gin.H{
				"id":          p.ID,
				"full_name":   p.FullName,
				"email":       p.User.Email,
				"phone":       p.Phone,
				"is_verified": p.IsVerified,
				"is_active":   p.IsActive,
				"created_at":  p.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"partners": out})
	}
}

func AdminGetDeliveryPartner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/delivery-partners/:id"

		partnerID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid partner id")
			return
		}

		var partner models.DeliveryPartner
		if err := db.Preload("User").First(&partner, partnerID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner not found")
			return
		}

		var deliveries []models.Order
		db.Where("delivery_partner_id = ?", partner.ID).
			Order("updated_at desc").Limit(20).Find(&deliveries)

		recent := make([]gin.H, 0, len(deliveries))
		for _, o := range deliveries {
			recent = append(recent, gin.H{
				"order_id":        o.ID,
				"status":          o.Status,
				"delivery_status": o.DeliveryStatus,
				"final_amount":    o.FinalAmount,
				"updated_at":      o.UpdatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"partner":           partner,
			"email":             partner.User.Email,
			"recent_deliveries": recent,
		})
	}
}

// AdminUpdateDeliveryPartner flips verification and activity; a partner
// cannot accept assignments until both are set.
func AdminUpdateDeliveryPartner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/delivery-partners/:id"

		partnerID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid partner id")
			return
		}

		var partner models.DeliveryPartner
		if err := db.First(&partner, partnerID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner not found")
			return
		}

		var req struct {
			FullName   *string `json:"full_name"`
			Phone      *string `json:"phone"`
			IsVerified *bool   `json:"is_verified"`
			IsActive   *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.FullName != nil {
			partner.FullName = *req.FullName
		}
		if req.Phone != nil {
			partner.Phone = *req.Phone
		}
		if req.IsVerified != nil {
			partner.IsVerified = *req.IsVerified
		}
		if req.IsActive != nil {
			partner.IsActive = *req.IsActive
		}

		if err := db.Save(&partner).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Delivery partner updated successfully"})
	}
}

func AdminDeleteDeliveryPartner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/delivery-partners/:id"

		partnerID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid partner id")
			return
		}

		var partner models.DeliveryPartner
		if err := db.First(&partner, partnerID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner not found")
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).
				Where("delivery_partner_id = ? AND delivery_status <> ?", partner.ID, models.DeliveryDone).
				Updates(map[string]interface{}{
					"delivery_partner_id": nil,
					"delivery_status":     models.DeliveryPending,
				}).Error; err != nil {
				return err
			}
			return tx.Delete(&partner).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Delivery partner deleted successfully"})
	}
}
