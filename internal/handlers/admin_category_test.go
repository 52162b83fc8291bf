package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func newCategoryRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/api/categories", GetCategories(db))
	r.POST("/api/admin/categories", CreateCategory(db))
	r.DELETE("/api/admin/categories/:id", DeleteCategory(db))
	return r
}

func TestCategoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := newCategoryRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/admin/categories", map[string]interface{}{
		"name": "Spices",
	})
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodGet, "/api/categories", nil)
	wantStatus(t, w, http.StatusOK)
	if body := w.Body.String(); !containsName(body, "Spices") {
		t.Fatalf("public listing missing new category: %s", body)
	}

	var category models.Category
	if err := db.Where("name = ?", "Spices").First(&category).Error; err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", category.ID), nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodGet, "/api/categories", nil)
	wantStatus(t, w, http.StatusOK)
	if body := w.Body.String(); containsName(body, "Spices") {
		t.Fatalf("soft-deleted category still listed: %s", body)
	}

	// Soft delete keeps the row.
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 1 {
		t.Fatalf("category rows = %d, want 1", count)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := newTestDB(t)
	r := newCategoryRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/admin/categories", map[string]interface{}{"name": "Honey"})
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/api/admin/categories", map[string]interface{}{"name": "Honey"})
	wantStatus(t, w, http.StatusBadRequest)
}

func containsName(body, name string) bool {
	return strings.Contains(body, name)
}
