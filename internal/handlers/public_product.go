package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// GetProducts lists active, approved products with filtering, sorting
// and pagination.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"

		page, perPage, err := parsePaginationParams(c.Query("page"), c.Query("per_page"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		query := db.Model(&models.Product{}).
			Where("is_active = ? AND is_approved = ?", true, true)

		if categoryID := strings.TrimSpace(c.Query("category_id")); categoryID != "" {
			id, err := strconv.Atoi(categoryID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid category_id")
				return
			}
			query = query.Where("category_id = ?", id)
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			query = query.Where("name LIKE ?", "%"+search+"%")
		}

		sortColumn := "name"
		if c.Query("sort_by") == "price" {
			sortColumn = "price"
		}
		direction := "asc"
		if c.Query("order") == "desc" {
			direction = "desc"
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var products []models.Product
		if err := query.Preload("Category").
			Order(sortColumn + " " + direction).
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&products).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		items := make([]gin.H, 0, len(products))
		for _, product := range products {
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

func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").First(&product, productID).Error; err != nil || !product.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":            product.ID,
			"name":          product.Name,
			"description":   product.Description,
			"price":         product.Price,
			"stock":         product.Stock,
			"unit":          product.Unit,
			"image_url":     product.ImageURL,
			"category_id":   product.CategoryID,
			"category_name": product.Category.Name,
		})
	}
}
