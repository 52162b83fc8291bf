package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var cartItems []models.CartItem
		if err := db.Preload("Product").Where("user_id = ?", userID).Order("id asc").Find(&cartItems).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		total := 0.0
		items := make([]gin.H, 0, len(cartItems))
		for _, item := range cartItems {
			if !item.Product.IsActive {
				continue
			}
			itemTotal := item.Product.Price * float64(item.Quantity)
			total += itemTotal
			items = append(items, gin.H{
				"id":           item.ID,
				"product_id":   item.ProductID,
				"product_name": item.Product.Name,
				"price":        item.Product.Price,
				"quantity":     item.Quantity,
				"unit":         item.Product.Unit,
				"image_url":    item.Product.ImageURL,
				"stock":        item.Product.Stock,
				"item_total":   itemTotal,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"cart_items": items,
			"total":      total,
		})
	}
}

// AddToCart merges quantity into the existing (user, product) line and
// bounds the result by current stock.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			ProductID uint `json:"product_id" binding:"required"`
			Quantity  int  `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		quantity := req.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		var product models.Product
		if err := db.First(&product, req.ProductID).Error; err != nil || !product.IsActive {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		if quantity > product.Stock {
			respondWithError(c, http.StatusBadRequest, route, "Insufficient stock")
			return
		}

		var cartItem models.CartItem
		err := db.Where("user_id = ? AND product_id = ?", userID, product.ID).First(&cartItem).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cartItem = models.CartItem{
				UserID:    userID,
				ProductID: product.ID,
				Quantity:  quantity,
			}
			if err := db.Create(&cartItem).Error; err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart successfully"})
			return
		} else if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cartItem.Quantity += quantity
		if cartItem.Quantity > product.Stock {
			respondWithError(c, http.StatusBadRequest, route, "Insufficient stock")
			return
		}

		if err := db.Save(&cartItem).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart successfully"})
	}
}

// UpdateCartItem sets the quantity; zero or below removes the line.
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/:id"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		cartItemID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid cart item id")
			return
		}

		var cartItem models.CartItem
		if err := db.Preload("Product").Where("id = ? AND user_id = ?", cartItemID, userID).First(&cartItem).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Cart item not found")
			return
		}

		var req struct {
			Quantity *int `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if *req.Quantity <= 0 {
			if err := db.Delete(&cartItem).Error; err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
			return
		}

		if *req.Quantity > cartItem.Product.Stock {
			respondWithError(c, http.StatusBadRequest, route, "Insufficient stock")
			return
		}

		cartItem.Quantity = *req.Quantity
		if err := db.Save(&cartItem).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
	}
}

func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:id"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		cartItemID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid cart item id")
			return
		}

		var cartItem models.CartItem
		if err := db.Where("id = ? AND user_id = ?", cartItemID, userID).First(&cartItem).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Cart item not found")
			return
		}

		if err := db.Delete(&cartItem).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}
