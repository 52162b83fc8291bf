package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/config"
	"backend/internal/mailer"
	"backend/internal/models"
)

/* =========================
   DTOs
========================= */

type VendorRegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	BusinessName string `json:"business_name" binding:"required"`
	BusinessType string `json:"business_type"`
	GSTNumber    string `json:"gst_number"`
	PANNumber    string `json:"pan_number"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Phone        string `json:"phone"`
}

type VendorProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Unit        string  `json:"unit"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	ImageURL    string  `json:"image_url"`
}

// Vendors see and submit lowercase statuses; the stored vocabulary is
// capitalized. The map is the whole set vendors may move an order to.
var vendorStatusMap = map[string]string{
	"pending":   models.StatusPending,
	"confirmed": models.StatusConfirmed,
	"shipped":   models.StatusShipped,
	"delivered": models.StatusDelivered,
	"cancelled": models.StatusCancelled,
}

/* =========================
   HELPERS
========================= */

func currentVendor(c *gin.Context, db *gorm.DB) (*models.Vendor, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	var vendor models.Vendor
	if err := db.Where("user_id = ?", userID).First(&vendor).Error; err != nil {
		return nil, false
	}
	return &vendor, true
}

/* =========================
   AUTH
========================= */

func VendorRegister(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/vendor/register"
		defer handlePanic(c, route)

		var req VendorRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Email already registered")
			return
		}

		user := models.User{
			Email:    req.Email,
			FullName: req.BusinessName,
			Phone:    req.Phone,
			Role:     models.RoleVendor,
		}
		if err := user.SetPassword(req.Password); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Registration failed")
			return
		}
		otp := user.GenerateOTP(config.AppEnv.OTPTTL)

		var vendor models.Vendor
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			vendor = models.Vendor{
				UserID:          user.ID,
				BusinessName:    req.BusinessName,
				BusinessType:    req.BusinessType,
				GSTNumber:       req.GSTNumber,
				PANNumber:       req.PANNumber,
				BusinessAddress: req.Address,
				City:            req.City,
				State:           req.State,
				Pincode:         req.Pincode,
				Phone:           req.Phone,
				IsApproved:      false,
				IsActive:        true,
			}
			return tx.Create(&vendor).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Registration failed")
			return
		}

		if mail != nil {
			mail.SendOTP(user.Email, otp)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Vendor registration submitted. Verify your email; your account will be reviewed by an administrator.",
			"vendor_id": vendor.ID,
		})
	}
}

func VendorLogin(db *gorm.DB, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/vendor/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}
		if !user.CheckPassword(req.Password) {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}
		if user.Role != models.RoleVendor {
			respondWithError(c, http.StatusForbidden, route, "Access denied. Vendor account required.")
			return
		}

		var vendor models.Vendor
		if err := db.Where("user_id = ?", user.ID).First(&vendor).Error; err != nil {
			respondWithError(c, http.StatusForbidden, route, "Access denied. Vendor account required.")
			return
		}
		if !vendor.IsApproved {
			respondWithError(c, http.StatusForbidden, route, "Vendor account pending approval")
			return
		}
		if !vendor.IsActive {
			respondWithError(c, http.StatusForbidden, route, "Vendor account is deactivated")
			return
		}

		token, err := issueToken(user.ID, user.Role, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Login failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"vendor": gin.H{
				"id":            vendor.ID,
				"business_name": vendor.BusinessName,
				"email":         user.Email,
			},
		})
	}
}

/* =========================
   PROFILE
========================= */

func VendorProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/vendor/profile"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"vendor": vendor})
	}
}

func VendorUpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/vendor/profile"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		var req struct {
			BusinessName *string `json:"business_name"`
			BusinessType *string `json:"business_type"`
			Address      *string `json:"address"`
			City         *string `json:"city"`
			State        *string `json:"state"`
			Pincode      *string `json:"pincode"`
			Phone        *string `json:"phone"`
			Website      *string `json:"website"`
			Description  *string `json:"description"`
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
		if req.Address != nil {
			vendor.BusinessAddress = *req.Address
		}
		if req.City != nil {
			vendor.City = *req.City
		}
		if req.State != nil {
			vendor.State = *req.State
		}
		if req.Pincode != nil {
			vendor.Pincode = *req.Pincode
		}
		if req.Phone != nil {
			vendor.Phone = *req.Phone
		}
		if req.Website != nil {
			vendor.Website = *req.Website
		}
		if req.Description != nil {
			vendor.Description = *req.Description
		}

		if err := db.Save(vendor).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
	}
}

/* =========================
   PRODUCTS
========================= */

func VendorListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/vendor/products"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		var products []models.Product
		if err := db.Preload("Category").Where("vendor_id = ?", vendor.ID).
			Order("created_at desc").Find(&products).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		out := make([]gin.H, 0, len(products))
		for _, p := range products {
			out = append(out, gin.H{
				"id":            p.ID,
				"name":          p.Name,
				"price":         p.Price,
				"stock":         p.Stock,
				"unit":          p.Unit,
				"image_url":     p.ImageURL,
				"category_id":   p.CategoryID,
				"category_name": p.Category.Name,
				"is_active":     p.IsActive,
				"is_approved":   p.IsApproved,
				"created_at":    p.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"products": out})
	}
}

// VendorCreateProduct accepts JSON or multipart with an image file.
// New vendor products start unapproved and wait for admin review.
func VendorCreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/vendor/products"
		defer handlePanic(c, route)

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		product := models.Product{
			IsActive:   true,
			IsApproved: false,
		}
		vendorID := vendor.ID
		product.VendorID = &vendorID

		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			input, err := parseMultipartProductRequest(c)
			if err != nil {
				respondMultipartError(c, err)
				return
			}
			if !input.NameSet || !input.PriceSet || !input.CategoryIDSet {
				respondWithError(c, http.StatusBadRequest, route, "name, price and category_id are required")
				return
			}
			product.Name = input.Name
			product.Description = input.Description
			product.Price = input.Price
			product.Stock = input.Stock
			product.Unit = input.Unit
			product.CategoryID = input.CategoryID
			if input.ImageSet {
				product.ImageURL = input.ImagePath
			}
		} else {
			var req VendorProductRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
			product.Name = req.Name
			product.Description = req.Description
			product.Price = req.Price
			product.Stock = req.Stock
			product.Unit = req.Unit
			product.CategoryID = req.CategoryID
			product.ImageURL = req.ImageURL
		}

		var category models.Category
		if err := db.Where("id = ? AND is_active = ?", product.CategoryID, true).First(&category).Error; err != nil {
			respondWithError(c, http.StatusBadRequest, route, errCategoryNotFound.Error())
			return
		}

		if err := db.Create(&product).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Product submitted for approval",
			"product_id": product.ID,
		})
	}
}

// VendorUpdateProduct edits an owned product. Moving it to a different
// category sends it back through admin approval.
func VendorUpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/vendor/products/:id"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var product models.Product
		if err := db.Where("id = ? AND vendor_id = ?", productID, vendor.ID).First(&product).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		var req struct {
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			Price       *float64 `json:"price"`
			Stock       *int     `json:"stock"`
			Unit        *string  `json:"unit"`
			CategoryID  *uint    `json:"category_id"`
			ImageURL    *string  `json:"image_url"`
			IsActive    *bool    `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
			var category models.Category
			if err := db.Where("id = ? AND is_active = ?", *req.CategoryID, true).First(&category).Error; err != nil {
				respondWithError(c, http.StatusBadRequest, route, errCategoryNotFound.Error())
				return
			}
			product.CategoryID = *req.CategoryID
			product.IsApproved = false
		}
		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "Price must be positive")
				return
			}
			product.Price = *req.Price
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "Stock cannot be negative")
				return
			}
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

		if err := db.Save(&product).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	}
}

func VendorDeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/vendor/products/:id"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var product models.Product
		if err := db.Where("id = ? AND vendor_id = ?", productID, vendor.ID).First(&product).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		var ordered int64
		db.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&ordered)
		if ordered > 0 {
			// Referenced by order history, so only hide it.
			if err := db.Model(&product).Update("is_active", false).Error; err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Product deactivated successfully"})
			return
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if txErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if product.ImageURL != "" {
			if err := safeDeleteUpload(product.ImageURL); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Failed to delete product image")
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

/* =========================
   DASHBOARD AND ORDERS
========================= */

func VendorDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/vendor/dashboard"
		defer handlePanic(c, route)

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		var (
			totalProducts   int64
			pendingApproval int64
			totalOrders     int64
			revenue         float64
		)

		db.Model(&models.Product{}).Where("vendor_id = ?", vendor.ID).Count(&totalProducts)
		db.Model(&models.Product{}).Where("vendor_id = ? AND is_approved = ?", vendor.ID, false).Count(&pendingApproval)
		db.Model(&models.Order{}).
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.vendor_id = ?", vendor.ID).
			Distinct("orders.id").Count(&totalOrders)
		db.Model(&models.OrderItem{}).
			Joins("JOIN products ON products.id = order_items.product_id").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("products.vendor_id = ? AND orders.status = ?", vendor.ID, models.StatusDelivered).
			Select("COALESCE(SUM(order_items.price * order_items.quantity), 0)").Scan(&revenue)

		c.JSON(http.StatusOK, gin.H{
			"total_products":   totalProducts,
			"pending_approval": pendingApproval,
			"total_orders":     totalOrders,
			"total_revenue":    revenue,
		})
	}
}

// VendorOrders lists orders containing this vendor's products; each
// row carries only the vendor's item subset and subtotal.
func VendorOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/vendor/orders"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		query := db.Model(&models.Order{}).
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.vendor_id = ?", vendor.ID).
			Distinct("orders.id")

		if status := c.Query("status"); status != "" {
			if mapped, ok := vendorStatusMap[strings.ToLower(status)]; ok {
				query = query.Where("orders.status = ?", mapped)
			}
		}

		var orderIDs []uint
		if err := query.Order("orders.id desc").Pluck("orders.id", &orderIDs).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var orders []models.Order
		if len(orderIDs) > 0 {
			if err := db.Preload("Items.Product").Where("id IN ?", orderIDs).
				Order("created_at desc").Find(&orders).Error; err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		out := make([]gin.H, 0, len(orders))
		for _, o := range orders {
			var vendorTotal float64
			items := make([]gin.H, 0)
			for _, item := range o.Items {
				if item.Product.VendorID == nil || *item.Product.VendorID != vendor.ID {
					continue
				}
				vendorTotal += item.Price * float64(item.Quantity)
				items = append(items, gin.H{
					"product_id":   item.ProductID,
					"product_name": item.Product.Name,
					"quantity":     item.Quantity,
					"price":        item.Price,
				})
			}
			out = append(out, gin.H{
				"id":           o.ID,
				"status":       strings.ToLower(o.Status),
				"vendor_total": vendorTotal,
				"items":        items,
				"created_at":   o.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

func VendorOrderDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/vendor/orders/:id"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var order models.Order
		if err := db.Preload("Items.Product").Preload("Address").First(&order, orderID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		var vendorSubtotal float64
		items := make([]gin.H, 0)
		for _, item := range order.Items {
			if item.Product.VendorID == nil || *item.Product.VendorID != vendor.ID {
				continue
			}
			vendorSubtotal += item.Price * float64(item.Quantity)
			items = append(items, gin.H{
				"product_id":   item.ProductID,
				"product_name": item.Product.Name,
				"quantity":     item.Quantity,
				"price":        item.Price,
				"subtotal":     item.Price * float64(item.Quantity),
			})
		}
		if len(items) == 0 {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		resp := gin.H{
			"id":              order.ID,
			"status":          strings.ToLower(order.Status),
			"delivery_status": order.DeliveryStatus,
			"vendor_subtotal": vendorSubtotal,
			"items":           items,
			"created_at":      order.CreatedAt,
		}
		if order.Address != nil {
			resp["address"] = order.Address
		}

		c.JSON(http.StatusOK, resp)
	}
}

func VendorUpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/vendor/orders/:id/status"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		mapped, valid := vendorStatusMap[strings.ToLower(req.Status)]
		if !valid {
			respondWithError(c, http.StatusBadRequest, route, "Invalid status")
			return
		}

		var count int64
		db.Model(&models.OrderItem{}).
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("order_items.order_id = ? AND products.vendor_id = ?", orderID, vendor.ID).
			Count(&count)
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", mapped).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

func VendorDeleteOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/vendor/orders/:id"

		vendor, ok := currentVendor(c, db)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "Vendor profile not found")
			return
		}

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var count int64
		db.Model(&models.OrderItem{}).
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("order_items.order_id = ? AND products.vendor_id = ?", orderID, vendor.ID).
			Count(&count)
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
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
