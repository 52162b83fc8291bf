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

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/categories"
		defer handlePanic(c, route)

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)

		var existing models.Category
		if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Category already exists")
			return
		}

		category := models.Category{
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			ImageURL:    strings.TrimSpace(req.ImageURL),
			IsActive:    true,
		}

		if err := db.Create(&category).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[CATEGORY] [INFO] category created:", category.Name)
		c.JSON(http.StatusCreated, gin.H{
			"message":     "Category created successfully",
			"category_id": category.ID,
		})
	}
}

func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/categories/:id"

		categoryID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid category id")
			return
		}

		var category models.Category
		if err := db.First(&category, categoryID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Category not found")
			return
		}

		var req struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			ImageURL    *string `json:"image_url"`
			IsActive    *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			category.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			category.Description = strings.TrimSpace(*req.Description)
		}
		if req.ImageURL != nil {
			category.ImageURL = strings.TrimSpace(*req.ImageURL)
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		if err := db.Save(&category).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully"})
	}
}

// DeleteCategory soft-deletes; products keep their category reference.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/categories/:id"

		categoryID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid category id")
			return
		}

		var category models.Category
		if err := db.First(&category, categoryID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Category not found")
			return
		}

		if err := db.Model(&category).Update("is_active", false).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
