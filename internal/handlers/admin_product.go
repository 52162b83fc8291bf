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

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Stock       int     `json:"stock"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"image_url"`
	CategoryID  uint    `json:"category_id" binding:"required"`
}

type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Unit        *string  `json:"unit"`
	ImageURL    *string  `json:"image_url"`
	CategoryID  *uint    `json:"category_id"`
	IsActive    *bool    `json:"is_active"`
}

// CreateProduct is the admin path; admin products need no approval.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var category models.Category
		if err := db.First(&category, req.CategoryID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Category not found")
			return
		}

		product := models.Product{
			CategoryID:  req.CategoryID,
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			Unit:        req.Unit,
			ImageURL:    req.ImageURL,
			IsActive:    true,
			IsApproved:  true,
		}

		if err := db.Create(&product).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PRODUCT] [INFO] product created:", product.ID)
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Product created successfully",
			"product_id": product.ID,
		})
	}
}

func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id"

		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var product models.Product
		if err := db.First(&product, productID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := applyProductUpdate(db, &product, req); err != nil {
			respondWithError(c, http.StatusNotFound, route, err.Error())
			return
		}

		if err := db.Save(&product).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	}
}

// DeleteProduct soft-deletes so historical orders keep their reference.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/products/:id"

		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var product models.Product
		if err := db.First(&product, productID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		if err := db.Model(&product).Update("is_active", false).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

// GetPendingProducts lists vendor products awaiting approval.
func GetPendingProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products/pending"

		page, perPage, err := parsePaginationParams(c.Query("page"), c.Query("per_page"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		query := db.Model(&models.Product{}).
			Where("is_approved = ? AND vendor_id IS NOT NULL", false)

		if vendorID := strings.TrimSpace(c.Query("vendor_id")); vendorID != "" {
			id, err := strconv.Atoi(vendorID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid vendor_id")
				return
			}
			query = query.Where("vendor_id = ?", id)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var products []models.Product
		if err := query.Preload("Category").Preload("Vendor").
			Order("created_at desc").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&products).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		items := make([]gin.H, 0, len(products))
		for _, product := range products {
			vendorName := "Admin"
			if product.Vendor != nil {
				vendorName = product.Vendor.BusinessName
			}
			items = append(items, gin.H{
				"id":            product.ID,
				"name":          product.Name,
				"description":   product.Description,
				"price":         product.Price,
				"stock":         product.Stock,
				"unit":          product.Unit,
				"image_url":     product.ImageURL,
				"category_id":   product.CategoryID,
				"category_name": product.Category.Name,
				"vendor_id":     product.VendorID,
				"vendor_name":   vendorName,
				"created_at":    product.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"products": items,
			"total":    total,
			"page":     page,
			"per_page": perPage,
			"pages":    totalPages(total, perPage),
		})
	}
}

// ApproveProduct approves or rejects a vendor product. Rejected
// products are also deactivated.
func ApproveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id/approve"

		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var product models.Product
		if err := db.First(&product, productID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		var req struct {
			IsApproved bool `json:"is_approved"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updates := map[string]interface{}{"is_approved": req.IsApproved}
		if !req.IsApproved {
			updates["is_active"] = false
		}

		if err := db.Model(&product).Updates(updates).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		status := "approved"
		if !req.IsApproved {
			status = "rejected"
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product " + status + " successfully"})
	}
}

func applyProductUpdate(db *gorm.DB, product *models.Product, req productUpdateRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		var category models.Category
		if err := db.First(&category, *req.CategoryID).Error; err != nil || !category.IsActive {
			return errCategoryNotFound
		}
		product.CategoryID = *req.CategoryID
	}
	return nil
}
