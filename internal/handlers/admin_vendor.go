package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/mailer"
	"backend/internal/models"
)

/* =========================
   DTOs
========================= */

type AdminCreateVendorRequest struct {
	Email        string `json:"email" binding:"required,email"`
	BusinessName string `json:"business_name" binding:"required"`
	BusinessType string `json:"business_type"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	State        string `json:"state"`
}

/* =========================
   VENDOR MANAGEMENT
========================= */

func AdminGetVendors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/vendors"

		page, perPage, err := parsePaginationParams(c.Query("page"), c.Query("per_page"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		query := db.Model(&models.Vendor{}).
			Joins("JOIN users ON users.id = vendors.user_id")

		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where("vendors.business_name LIKE ? OR users.email LIKE ?", like, like)
		}
		switch c.Query("status") {
		case "approved":
			query = query.Where("vendors.is_approved = ? AND vendors.is_active = ?", true, true)
		case "pending":
			query = query.Where("vendors.is_approved = ? AND vendors.is_active = ?", false, true)
		case "inactive":
			query = query.Where("vendors.is_active = ?", false)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var vendors []models.Vendor
		if err := query.Preload("User").Order("vendors.created_at desc").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&vendors).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		out := make([]gin.H, 0, len(vendors))
		for _, v := range vendors {
			out = append(out, gin.H{
				"id":            v.ID,
				"business_name": v.BusinessName,
				"business_type": v.BusinessType,
				"email":         v.User.Email,
				"phone":         v.Phone,
				"city":          v.City,
				"state":         v.State,
				"is_approved":   v.IsApproved,
				"is_active":     v.IsActive,
				"created_at":    v.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"vendors":  out,
			"total":    total,
			"page":     page,
			"per_page": perPage,
			"pages":    totalPages(total, perPage),
		})
	}
}

func AdminGetVendor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/vendors/:id"

		vendorID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid vendor id")
			return
		}

		var vendor models.Vendor
		if err := db.Preload("User").First(&vendor, vendorID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Vendor not found")
			return
		}

		var assignments []models.VendorCategory
		db.Preload("Category").Where("vendor_id = ? AND is_active = ?", vendor.ID, true).Find(&assignments)

		categories := make([]gin.H, 0, len(assignments))
		for _, a := range assignments {
			categories = append(categories, gin.H{
				"id":   a.CategoryID,
				"name": a.Category.Name,
			})
		}

		var products []models.Product
		db.Where("vendor_id = ?", vendor.ID).Order("created_at desc").Limit(10).Find(&products)

		c.JSON(http.StatusOK, gin.H{
			"vendor":          vendor,
			"email":           vendor.User.Email,
			"categories":      categories,
			"recent_products": products,
		})
	}
}

func AdminUpdateVendor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/vendors/:id"

		vendorID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid vendor id")
			return
		}

		var vendor models.Vendor
		if err := db.First(&vendor, vendorID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Vendor not found")
			return
		}

		var req struct {
			BusinessName *string `json:"business_name"`
			BusinessType *string `json:"business_type"`
			Phone        *string `json:"phone"`
			City         *string `json:"city"`
			State        *string `json:"state"`
			IsApproved   *bool   `json:"is_approved"`
			IsActive     *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.BusinessName != nil {
			vendor.BusinessName = *req.BusinessName
		}
		if req.BusinessType != nil {
			vendor.BusinessType = *req.BusinessType
		}
		if req.Phone != nil {
			vendor.Phone = *req.Phone
		}
		if req.City != nil {
			vendor.City = *req.City
		}
		if req.State != nil {
			vendor.State = *req.State
		}
		if req.IsApproved != nil {
			vendor.IsApproved = *req.IsApproved
		}
		if req.IsActive != nil {
			vendor.IsActive = *req.IsActive
		}

		if err := db.Save(&vendor).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Vendor updated successfully"})
	}
}

// AdminDeleteVendor removes the profile and its category assignments.
// The vendor's products stay but are detached and deactivated.
func AdminDeleteVendor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/vendors/:id"

		vendorID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid vendor id")
			return
		}

		var vendor models.Vendor
		if err := db.First(&vendor, vendorID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Vendor not found")
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("vendor_id = ?", vendor.ID).Delete(&models.VendorCategory{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Product{}).Where("vendor_id = ?", vendor.ID).
				Updates(map[string]interface{}{"vendor_id": nil, "is_active": false}).Error; err != nil {
				return err
			}
			return tx.Delete(&vendor).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
	}
}

// AssignVendorCategories replaces the vendor's category set wholesale.
func AssignVendorCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/vendors/:id/categories"

		vendorID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid vendor id")
			return
		}

		var vendor models.Vendor
		if err := db.First(&vendor, vendorID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Vendor not found")
			return
		}

		var req struct {
			CategoryIDs []uint `json:"category_ids" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("vendor_id = ?", vendor.ID).Delete(&models.VendorCategory{}).Error; err != nil {
				return err
			}
			for _, categoryID := range req.CategoryIDs {
				var category models.Category
				if err := tx.Where("id = ? AND is_active = ?", categoryID, true).First(&category).Error; err != nil {
					return errCategoryNotFound
				}
				assignment := models.VendorCategory{
					VendorID:   vendor.ID,
					CategoryID: categoryID,
					IsActive:   true,
				}
				if err := tx.Create(&assignment).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			if txErr == errCategoryNotFound {
				respondWithError(c, http.StatusBadRequest, route, errCategoryNotFound.Error())
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Categories assigned successfully"})
	}
}

// AdminCreateVendor provisions a pre-approved vendor account with a
// temporary password that is mailed to the vendor.
func AdminCreateVendor(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/vendors"
		defer handlePanic(c, route)

		var req AdminCreateVendorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Email already registered")
			return
		}

		tempPassword := models.RandomDigits(8)

		user := models.User{
			Email:      req.Email,
			FullName:   req.BusinessName,
			Phone:      req.Phone,
			Role:       models.RoleVendor,
			IsVerified: true,
		}
		if err := user.SetPassword(tempPassword); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create vendor")
			return
		}

		var vendor models.Vendor
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			vendor = models.Vendor{
				UserID:       user.ID,
				BusinessName: req.BusinessName,
				BusinessType: req.BusinessType,
				Phone:        req.Phone,
				City:         req.City,
				State:        req.State,
				IsApproved:   true,
				IsActive:     true,
			}
			return tx.Create(&vendor).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create vendor")
			return
		}

		if mail != nil {
			mail.SendVendorCredentials(user.Email, tempPassword, vendor.BusinessName)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Vendor created successfully",
			"vendor_id": vendor.ID,
		})
	}
}
