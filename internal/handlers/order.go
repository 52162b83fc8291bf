package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/mailer"
	"backend/internal/models"
)

/* =========================
   DTOs
========================= */

type CreateOrderRequest struct {
	AddressID     *uint  `json:"address_id"`
	CouponCode    string `json:"coupon_code"`
	PaymentMethod string `json:"payment_method"`
}

/* =========================
   CHECKOUT
========================= */

// CreateOrder turns the caller's cart into an order inside a single
// transaction. Stock is decremented with a conditional update, so two
// concurrent checkouts can never oversell a product: the losing
// transaction sees zero rows affected and rolls back whole. The coupon
// usage counter is claimed the same way. Mail goes out only after the
// transaction commits.
func CreateOrder(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		paymentMethod := strings.ToUpper(req.PaymentMethod)
		if paymentMethod == "" {
			paymentMethod = "COD"
		}
		if paymentMethod != "COD" && paymentMethod != "ONLINE" {
			respondWithError(c, http.StatusBadRequest, route, "Invalid payment method")
			return
		}

		var (
			order models.Order
			lines []mailer.OrderLine
		)

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var cartItems []models.CartItem
			if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
				return err
			}
			if len(cartItems) == 0 {
				return errCartEmpty
			}

			var total float64
			for _, item := range cartItems {
				if !item.Product.IsActive {
					return productInactiveError{ProductName: item.Product.Name}
				}
				if item.Quantity > item.Product.Stock {
					return outOfStockError{
						ProductName: item.Product.Name,
						Available:   item.Product.Stock,
						Requested:   item.Quantity,
					}
				}
				total += item.Product.Price * float64(item.Quantity)
			}

			var discount float64
			if req.CouponCode != "" {
				var coupon models.Coupon
				if err := tx.Where("code = ? AND is_active = ?", req.CouponCode, true).First(&coupon).Error; err != nil {
					return couponError{Reason: "Invalid coupon code", Status: http.StatusBadRequest}
				}
				if err := checkCoupon(&coupon, total, time.Now()); err != nil {
					return err
				}
				discount = computeDiscount(&coupon, total)

				// Claim one use. The guard re-checks the limit under the
				// transaction, so the preview passing is not enough to win.
				res := tx.Model(&models.Coupon{}).
					Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", coupon.ID).
					UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return couponError{Reason: "Coupon usage limit reached", Status: http.StatusBadRequest}
				}
			}

			if req.AddressID != nil {
				var address models.Address
				if err := tx.Where("id = ? AND user_id = ?", *req.AddressID, userID).First(&address).Error; err != nil {
					return errInvalidAddress
				}
			}

			order = models.Order{
				UserID:         userID,
				AddressID:      req.AddressID,
				TotalAmount:    total,
				DiscountAmount: discount,
				FinalAmount:    total - discount,
				CouponCode:     req.CouponCode,
				Status:         models.StatusPending,
				PaymentStatus:  models.PaymentPending,
				DeliveryStatus: models.DeliveryPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			for _, item := range cartItems {
				orderItem := models.OrderItem{
					OrderID:   order.ID,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					Price:     item.Product.Price,
				}
				if err := tx.Create(&orderItem).Error; err != nil {
					return err
				}

				res := tx.Model(&models.Product{}).
					Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
					UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					// The guarded decrement missed, so the preloaded stock is
					// stale. Report what the row holds now.
					var current models.Product
					available := 0
					if err := tx.Select("stock").First(&current, item.ProductID).Error; err == nil {
						available = current.Stock
					}
					return outOfStockError{
						ProductName: item.Product.Name,
						Available:   available,
						Requested:   item.Quantity,
					}
				}

				vendorEmail := ""
				if item.Product.VendorID != nil {
					var vendorUser models.User
					err := tx.Joins("JOIN vendors ON vendors.user_id = users.id").
						Where("vendors.id = ?", *item.Product.VendorID).
						First(&vendorUser).Error
					if err == nil {
						vendorEmail = vendorUser.Email
					}
				}
				lines = append(lines, mailer.OrderLine{
					ProductName: item.Product.Name,
					Quantity:    item.Quantity,
					Price:       item.Product.Price,
					VendorEmail: vendorEmail,
				})
			}

			return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
		})

		if txErr != nil {
			switch {
			case errors.Is(txErr, errCartEmpty):
				respondWithError(c, http.StatusBadRequest, route, errCartEmpty.Error())
			case errors.Is(txErr, errInvalidAddress):
				respondWithError(c, http.StatusBadRequest, route, errInvalidAddress.Error())
			default:
				var (
					stockErr    outOfStockError
					inactiveErr productInactiveError
					cErr        couponError
				)
				switch {
				case errors.As(txErr, &stockErr):
					log.Printf("[%s] returning error %d: %s", route, http.StatusBadRequest, stockErr.Error())
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
						"error":     stockErr.Error(),
						"available": stockErr.Available,
						"requested": stockErr.Requested,
					})
				case errors.As(txErr, &inactiveErr):
					respondWithError(c, http.StatusBadRequest, route, inactiveErr.Error())
				case errors.As(txErr, &cErr):
					respondWithError(c, cErr.Status, route, cErr.Reason)
				default:
					respondWithError(c, http.StatusInternalServerError, route, "Failed to create order")
				}
			}
			return
		}

		var customer models.User
		if err := db.First(&customer, userID).Error; err == nil && mail != nil {
			mail.SendOrderNotifications(order.ID, customer.Email, order.TotalAmount, order.FinalAmount, lines)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":         "Order placed successfully",
			"order_id":        order.ID,
			"total_amount":    order.TotalAmount,
			"discount_amount": order.DiscountAmount,
			"final_amount":    order.FinalAmount,
			"payment_method":  paymentMethod,
		})
	}
}

/* =========================
   CUSTOMER ORDER VIEWS
========================= */

func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var orders []models.Order
		if err := db.Preload("Items").Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		out := make([]gin.H, 0, len(orders))
		for _, o := range orders {
			out = append(out, gin.H{
				"id":              o.ID,
				"total_amount":    o.TotalAmount,
				"discount_amount": o.DiscountAmount,
				"final_amount":    o.FinalAmount,
				"coupon_code":     o.CouponCode,
				"status":          o.Status,
				"payment_status":  o.PaymentStatus,
				"delivery_status": o.DeliveryStatus,
				"items_count":     len(o.Items),
				"created_at":      o.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var order models.Order
		if err := db.Preload("Items.Product").Preload("Address").
			Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		items := make([]gin.H, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, gin.H{
				"product_id":   item.ProductID,
				"product_name": item.Product.Name,
				"image_url":    item.Product.ImageURL,
				"quantity":     item.Quantity,
				"price":        item.Price,
				"subtotal":     item.Price * float64(item.Quantity),
			})
		}

		resp := gin.H{
			"id":              order.ID,
			"total_amount":    order.TotalAmount,
			"discount_amount": order.DiscountAmount,
			"final_amount":    order.FinalAmount,
			"coupon_code":     order.CouponCode,
			"status":          order.Status,
			"payment_status":  order.PaymentStatus,
			"delivery_status": order.DeliveryStatus,
			"created_at":      order.CreatedAt,
			"items":           items,
		}
		if order.Address != nil {
			resp["address"] = order.Address
		}

		c.JSON(http.StatusOK, resp)
	}
}

// DeleteOrder removes a finished order from the caller's history. Only
// terminal orders qualify; live orders must run their course first.
func DeleteOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/orders/:id"

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		if !order.IsTerminal() {
			respondWithError(c, http.StatusBadRequest, route, "Only delivered or cancelled orders can be deleted")
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
