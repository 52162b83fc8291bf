package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

var adminOrderStatuses = map[string]bool{
	models.StatusPending:    true,
	models.StatusConfirmed:  true,
	models.StatusProcessing: true,
	models.StatusShipped:    true,
	models.StatusDelivered:  true,
	models.StatusCancelled:  true,
	models.StatusCompleted:  true,
}

var adminPaymentStatuses = map[string]bool{
	models.PaymentPending: true,
	models.PaymentSuccess: true,
	models.PaymentFailed:  true,
}

func AdminGetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders"

		page, perPage, err := parsePaginationParams(c.Query("page"), c.Query("per_page"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		query := db.Model(&models.Order{}).
			Joins("JOIN users ON users.id = orders.user_id")

		if status := c.Query("status"); status != "" {
			query = query.Where("orders.status = ?", status)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where("users.email LIKE ? OR users.full_name LIKE ?", like, like)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var orders []models.Order
		if err := query.Preload("User").Preload("Items").
			Order("orders.created_at desc").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&orders).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		out := make([]gin.H, 0, len(orders))
		for _, o := range orders {
			out = append(out, gin.H{
				"id":              o.ID,
				"customer_email":  o.User.Email,
				"customer_name":   o.User.FullName,
				"total_amount":    o.TotalAmount,
				"discount_amount": o.DiscountAmount,
				"final_amount":    o.FinalAmount,
				"status":          o.Status,
				"payment_status":  o.PaymentStatus,
				"delivery_status": o.DeliveryStatus,
				"items_count":     len(o.Items),
				"created_at":      o.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":   out,
			"total":    total,
			"page":     page,
			"per_page": perPage,
			"pages":    totalPages(total, perPage),
		})
	}
}

func AdminGetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders/:id"

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var order models.Order
		if err := db.Preload("User").Preload("Address").Preload("Items.Product").
			First(&order, orderID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		items := make([]gin.H, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, gin.H{
				"product_id":   item.ProductID,
				"product_name": item.Product.Name,
				"quantity":     item.Quantity,
				"price":        item.Price,
				"subtotal":     item.Price * float64(item.Quantity),
			})
		}

		resp := gin.H{
			"id": order.ID,
			"customer": gin.H{
				"id":        order.User.ID,
				"email":     order.User.Email,
				"full_name": order.User.FullName,
				"phone":     order.User.Phone,
			},
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

// AdminUpdateOrderStatus accepts the full status vocabulary, including
// the bookkeeping Completed state that drives revenue reporting.
func AdminUpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/orders/:id/status"

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req struct {
			Status        string `json:"status" binding:"required"`
			PaymentStatus string `json:"payment_status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !adminOrderStatuses[req.Status] {
			respondWithError(c, http.StatusBadRequest, route, "Invalid status")
			return
		}
		if req.PaymentStatus != "" && !adminPaymentStatuses[req.PaymentStatus] {
			respondWithError(c, http.StatusBadRequest, route, "Invalid payment status")
			return
		}

		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		updates := map[string]interface{}{"status": req.Status}
		if req.PaymentStatus != "" {
			updates["payment_status"] = req.PaymentStatus
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}
