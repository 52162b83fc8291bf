package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func newCartRouter(db *gorm.DB, userID uint) *gin.Engine {
	r := gin.New()
	grp := r.Group("/api/cart", asUser(userID))
	grp.GET("", GetCart(db))
	grp.POST("", AddToCart(db))
	grp.PUT("/:id", UpdateCartItem(db))
	return r
}

func TestAddToCartMergesQuantity(t *testing.T) {
	db := newTestDB(t)
	user, product := seedCheckout(t, db)

	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	})
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   3,
	})
	wantStatus(t, w, http.StatusCreated)

	var items []models.CartItem
	db.Where("user_id = ?", user.ID).Find(&items)
	if len(items) != 1 {
		t.Fatalf("cart lines = %d, want 1 merged line", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want merged 5", items[0].Quantity)
	}
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	db := newTestDB(t)
	user, product := seedCheckout(t, db)

	r := newCartRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   product.Stock + 1,
	})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestUpdateCartItemZeroRemovesLine(t *testing.T) {
	db := newTestDB(t)
	user, product := seedCheckout(t, db)

	item := models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	db.Create(&item)

	r := newCartRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cart/%d", item.ID), map[string]interface{}{
		"quantity": 0,
	})
	wantStatus(t, w, http.StatusOK)

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("cart lines = %d after zero-quantity update, want 0", count)
	}
}
