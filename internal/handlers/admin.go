package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

/* =========================
   DASHBOARD
========================= */

// DashboardStats aggregates the numbers the admin front page shows.
// Revenue counts Completed orders only.
func DashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/dashboard"
		defer handlePanic(c, route)

		var (
			totalUsers    int64
			totalProducts int64
			totalOrders   int64
			pendingOrders int64
			revenue       float64
		)

		db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&totalUsers)
		db.Model(&models.Product{}).Where("is_active = ?", true).Count(&totalProducts)
		db.Model(&models.Order{}).Count(&totalOrders)
		db.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&pendingOrders)
		db.Model(&models.Order{}).Where("status = ?", models.StatusCompleted).
			Select("COALESCE(SUM(final_amount), 0)").Scan(&revenue)

		var recent []models.Order
		db.Preload("User").Order("created_at desc").Limit(10).Find(&recent)

		recentOut := make([]gin.H, 0, len(recent))
		for _, o := range recent {
			recentOut = append(recentOut, gin.H{
				"id":             o.ID,
				"customer_email": o.User.Email,
				"final_amount":   o.FinalAmount,
				"status":         o.Status,
				"created_at":     o.CreatedAt,
			})
		}

		type topRow struct {
			ProductID uint
			Name      string
			TotalSold int
		}
		var top []topRow
		db.Model(&models.OrderItem{}).
			Select("order_items.product_id as product_id, products.name as name, SUM(order_items.quantity) as total_sold").
			Joins("JOIN products ON products.id = order_items.product_id").
			Group("order_items.product_id, products.name").
			Order("total_sold desc").
			Limit(5).
			Scan(&top)

		topOut := make([]gin.H, 0, len(top))
		for _, row := range top {
			topOut = append(topOut, gin.H{
				"product_id": row.ProductID,
				"name":       row.Name,
				"total_sold": row.TotalSold,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"total_users":    totalUsers,
			"total_products": totalProducts,
			"total_orders":   totalOrders,
			"pending_orders": pendingOrders,
			"total_revenue":  revenue,
			"recent_orders":  recentOut,
			"top_products":   topOut,
		})
	}
}

/* =========================
   USER MANAGEMENT
========================= */

// GetUsers lists non-vendor accounts; vendor accounts live under the
// vendor management endpoints.
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/users"

		page, perPage, err := parsePaginationParams(c.Query("page"), c.Query("per_page"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		query := db.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		} else {
			query = query.Where("role <> ?", models.RoleVendor)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where("email LIKE ? OR full_name LIKE ?", like, like)
		}
		if verified := c.Query("verified"); verified != "" {
			query = query.Where("is_verified = ?", verified == "true")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var users []models.User
		if err := query.Order("created_at desc").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&users).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users":    users,
			"total":    total,
			"page":     page,
			"per_page": perPage,
			"pages":    totalPages(total, perPage),
		})
	}
}

func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/users/:id"

		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var user models.User
		if err := db.First(&user, targetID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		var orders []models.Order
		db.Where("user_id = ?", user.ID).Order("created_at desc").Limit(10).Find(&orders)

		var addresses []models.Address
		db.Where("user_id = ?", user.ID).Find(&addresses)

		c.JSON(http.StatusOK, gin.H{
			"user":      user,
			"orders":    orders,
			"addresses": addresses,
		})
	}
}

func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/users/:id"

		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var user models.User
		if err := db.First(&user, targetID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		var req struct {
			FullName   *string `json:"full_name"`
			Phone      *string `json:"phone"`
			Role       *string `json:"role"`
			IsVerified *bool   `json:"is_verified"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Role != nil {
			switch *req.Role {
			case models.RoleCustomer, models.RoleVendor, models.RoleDelivery, models.RoleAdmin:
				user.Role = *req.Role
			default:
				respondWithError(c, http.StatusBadRequest, route, "Invalid role")
				return
			}
		}
		if req.FullName != nil {
			user.FullName = *req.FullName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.IsVerified != nil {
			user.IsVerified = *req.IsVerified
		}

		if err := db.Save(&user).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
	}
}

func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/users/:id"

		adminID, _ := currentUserID(c)

		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		if uint(targetID) == adminID {
			respondWithError(c, http.StatusBadRequest, route, "Cannot delete your own account")
			return
		}

		var user models.User
		if err := db.First(&user, targetID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := purgeUserRows(tx, user.ID); err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

/* =========================
   SETTINGS
========================= */

// Store settings are static for now; the shop front reads them as-is.
func GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"store_name":         "Kash.it",
			"currency":           "INR",
			"delivery_fee":       0,
			"min_order_amount":   0,
			"support_email":      "kashit.kashmir@gmail.com",
			"maintenance_mode":   false,
			"allow_registration": true,
		})
	}
}

func UpdateSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
	}
}
