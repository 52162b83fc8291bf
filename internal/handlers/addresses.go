package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

type addressRequest struct {
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/addresses"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		country := strings.TrimSpace(req.Country)
		if country == "" {
			country = "India"
		}

		address := models.Address{
			UserID:       userID,
			AddressLine1: strings.TrimSpace(req.AddressLine1),
			AddressLine2: strings.TrimSpace(req.AddressLine2),
			City:         strings.TrimSpace(req.City),
			State:        strings.TrimSpace(req.State),
			PostalCode:   strings.TrimSpace(req.PostalCode),
			Country:      country,
			IsDefault:    req.IsDefault,
		}

		// Clearing previous defaults and inserting the new row commit
		// together so the single-default invariant holds.
		err := db.Transaction(func(tx *gorm.DB) error {
			if address.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ? AND is_default = ?", userID, true).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(&address).Error
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to save address")
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID)
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Address added successfully",
			"address_id": address.ID,
		})
	}
}

func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Order("id asc").Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/addresses/:id"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid address id")
			return
		}

		var address models.Address
		if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Address not found")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address.AddressLine1 = strings.TrimSpace(req.AddressLine1)
		address.AddressLine2 = strings.TrimSpace(req.AddressLine2)
		address.City = strings.TrimSpace(req.City)
		address.State = strings.TrimSpace(req.State)
		address.PostalCode = strings.TrimSpace(req.PostalCode)
		if country := strings.TrimSpace(req.Country); country != "" {
			address.Country = country
		}

		if err := db.Save(&address).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Address updated successfully",
			"address_id": address.ID,
		})
	}
}

func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/addresses/:id"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid address id")
			return
		}

		var address models.Address
		if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Address not found")
			return
		}

		if err := db.Delete(&address).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
	}
}

// SetDefaultAddress leaves exactly one default row for the user no
// matter how many were default before.
func SetDefaultAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/addresses/:id/default"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid address id")
			return
		}

		var address models.Address
		if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Address not found")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
			return tx.Model(&address).Update("is_default", true).Error
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Default address updated successfully"})
	}
}
