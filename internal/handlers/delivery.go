package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/config"
	"backend/internal/mailer"
	"backend/internal/models"
)

/* =========================
   DTOs
========================= */

type DeliveryRegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

/* =========================
   HELPERS
========================= */

func currentDeliveryPartner(c *gin.Context, db *gorm.DB) (*models.DeliveryPartner, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	var partner models.DeliveryPartner
	if err := db.Where("user_id = ?", userID).First(&partner).Error; err != nil {
		return nil, false
	}
	return &partner, true
}

/* =========================
   AUTH
========================= */

// DeliveryRegister turns a verified customer account into a pending
// delivery partner. An admin reviews the application before the
// partner can log in through the delivery endpoints.
func DeliveryRegister(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/delivery/register"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req DeliveryRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		if !user.IsVerified {
			respondWithError(c, http.StatusForbidden, route, "Email verification required")
			return
		}

		var existing models.DeliveryPartner
		if err := db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Delivery partner application already exists")
			return
		}

		partner := models.DeliveryPartner{
			UserID:     user.ID,
			FullName:   req.FullName,
			Phone:      req.Phone,
			IsVerified: false,
			IsActive:   true,
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&partner).Error; err != nil {
				return err
			}
			return tx.Model(&user).Update("role", models.RoleDelivery).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Registration failed")
			return
		}

		if mail != nil {
			mail.SendDeliveryPartnerReview(config.AppEnv.AdminEmail, user.Email, partner.FullName, partner.Phone)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Application submitted. You will be notified once an administrator verifies your account.",
			"partner_id": partner.ID,
		})
	}
}

func DeliveryLogin(db *gorm.DB, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/delivery/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}
		if !user.CheckPassword(req.Password) {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}
		if user.Role != models.RoleDelivery {
			respondWithError(c, http.StatusForbidden, route, "Access denied. Delivery partner account required.")
			return
		}

		var partner models.DeliveryPartner
		if err := db.Where("user_id = ?", user.ID).First(&partner).Error; err != nil {
			respondWithError(c, http.StatusForbidden, route, "Access denied. Delivery partner account required.")
			return
		}
		if !partner.IsVerified {
			respondWithError(c, http.StatusForbidden, route, "Delivery partner account pending verification")
			return
		}
		if !partner.IsActive {
			respondWithError(c, http.StatusForbidden, route, "Delivery partner account is deactivated")
			return
		}

		token, err := issueToken(user.ID, user.Role, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Login failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"partner": gin.H{
				"id":        partner.ID,
				"full_name": partner.FullName,
				"email":     user.Email,
			},
		})
	}
}

/* =========================
   PROFILE AND ASSIGNMENTS
========================= */

func DeliveryProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/delivery/profile"

		partner, ok := currentDeliveryPartner(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner profile not found")
			return
		}

		var completed int64
		db.Model(&models.Order{}).
			Where("delivery_partner_id = ? AND delivery_status = ?", partner.ID, models.DeliveryDone).
			Count(&completed)

		c.JSON(http.StatusOK, gin.H{
			"partner":              partner,
			"completed_deliveries": completed,
		})
	}
}

// DeliveryAssignments shows unclaimed shippable orders next to the
// partner's own in-flight deliveries.
func DeliveryAssignments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/delivery/assignments"

		partner, ok := currentDeliveryPartner(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner profile not found")
			return
		}

		var available []models.Order
		db.Preload("Address").
			Where("delivery_partner_id IS NULL AND status IN ?", []string{models.StatusShipped, models.StatusConfirmed}).
			Order("created_at asc").Find(&available)

		var mine []models.Order
		db.Preload("Address").
			Where("delivery_partner_id = ? AND delivery_status <> ?", partner.ID, models.DeliveryDone).
			Order("updated_at desc").Find(&mine)

		format := func(orders []models.Order) []gin.H {
			out := make([]gin.H, 0, len(orders))
			for _, o := range orders {
				row := gin.H{
					"order_id":        o.ID,
					"status":          o.Status,
					"delivery_status": o.DeliveryStatus,
					"final_amount":    o.FinalAmount,
					"created_at":      o.CreatedAt,
				}
				if o.Address != nil {
					row["address"] = o.Address
				}
				out = append(out, row)
			}
			return out
		}

		c.JSON(http.StatusOK, gin.H{
			"available":     format(available),
			"my_deliveries": format(mine),
		})
	}
}

// AcceptAssignment claims an order. The claim is a conditional update
// keyed on the partner column still being empty, so two partners
// racing for the same order cannot both win.
func AcceptAssignment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/delivery/assignments/:id/accept"

		partner, ok := currentDeliveryPartner(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner profile not found")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		res := db.Model(&models.Order{}).
			Where("id = ? AND delivery_partner_id IS NULL AND status IN ?",
				orderID, []string{models.StatusShipped, models.StatusConfirmed}).
			Updates(map[string]interface{}{
				"delivery_partner_id": partner.ID,
				"delivery_status":     models.DeliveryOutFor,
				"status":              models.StatusShipped,
			})
		if res.Error != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.RowsAffected == 0 {
			respondWithError(c, http.StatusConflict, route, "Order is no longer available")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Assignment accepted"})
	}
}

func CompleteDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/delivery/assignments/:id/complete"

		partner, ok := currentDeliveryPartner(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Delivery partner profile not found")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		res := db.Model(&models.Order{}).
			Where("id = ? AND delivery_partner_id = ? AND delivery_status = ?",
				orderID, partner.ID, models.DeliveryOutFor).
			Updates(map[string]interface{}{
				"delivery_status": models.DeliveryDone,
				"status":          models.StatusDelivered,
			})
		if res.Error != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.RowsAffected == 0 {
			respondWithError(c, http.StatusNotFound, route, "Assignment not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Delivery completed"})
	}
}
