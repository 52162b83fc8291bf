package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/mailer"
	"backend/internal/middleware"
	"backend/internal/models"
)

func main() {
	config.Load()

	db, err := database.Connect(config.AppEnv.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	log.Println("Database connected:", config.AppEnv.DatabaseURL)

	mail := mailer.New(config.AppEnv)
	defer mail.Close()

	rzp := razorpay.NewClient(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret)

	secret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL

	r := gin.Default()
	r.Static("/uploads", "./"+config.AppEnv.UploadDir)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register(db, mail))
		auth.POST("/verify-otp", handlers.VerifyOTP(db))
		auth.POST("/resend-otp", handlers.ResendOTP(db, mail))
		auth.POST("/login", handlers.Login(db, secret, accessTTL))
		auth.POST("/forgot-password", handlers.ForgotPassword(db, mail))
		auth.POST("/reset-password", handlers.ResetPassword(db))

		auth.GET("/profile", middleware.UserAuth(secret), handlers.GetProfile(db))
		auth.PUT("/profile", middleware.UserAuth(secret), handlers.UpdateProfile(db))
		auth.DELETE("/account", middleware.UserAuth(secret), handlers.DeleteAccount(db))
	}

	r.GET("/api/categories", handlers.GetCategories(db))
	r.GET("/api/products", handlers.GetProducts(db))
	r.GET("/api/products/:id", handlers.GetProduct(db))

	addresses := r.Group("/api/addresses")
	addresses.Use(middleware.UserAuth(secret))
	{
		addresses.GET("", handlers.ListAddresses(db))
		addresses.POST("", handlers.CreateAddress(db))
		addresses.PUT("/:id", handlers.UpdateAddress(db))
		addresses.DELETE("/:id", handlers.DeleteAddress(db))
		addresses.PUT("/:id/default", handlers.SetDefaultAddress(db))
	}

	cart := r.Group("/api/cart")
	cart.Use(middleware.UserAuth(secret))
	{
		cart.GET("", handlers.GetCart(db))
		cart.POST("", handlers.AddToCart(db))
		cart.PUT("/:id", handlers.UpdateCartItem(db))
		cart.DELETE("/:id", handlers.RemoveFromCart(db))
		cart.DELETE("", handlers.ClearCart(db))
	}

	orders := r.Group("/api/orders")
	orders.Use(middleware.VerifiedUserRequired(db, secret))
	{
		orders.POST("", handlers.CreateOrder(db, mail))
		orders.GET("", handlers.GetOrders(db))
		orders.GET("/:id", handlers.GetOrder(db))
		orders.DELETE("/:id", handlers.DeleteOrder(db))
	}

	r.POST("/api/coupons/validate", middleware.UserAuth(secret), handlers.ValidateCoupon(db))

	iot := r.Group("/api/iot")
	{
		iot.POST("/sensor-data", handlers.ReceiveSensorData(db))

		iot.GET("/devices", middleware.UserAuth(secret), handlers.GetDevices(db))
		iot.POST("/devices", middleware.UserAuth(secret), handlers.RegisterDevice(db))
		iot.PUT("/devices/:id", middleware.UserAuth(secret), handlers.UpdateDevice(db))
		iot.DELETE("/devices/:id", middleware.UserAuth(secret), handlers.DeleteDevice(db))
		iot.GET("/devices/:id/data", middleware.UserAuth(secret), handlers.GetSensorData(db))
	}

	payments := r.Group("/api/payments")
	payments.Use(middleware.VerifiedUserRequired(db, secret))
	{
		payments.GET("/key", handlers.GetPaymentKey())
		payments.POST("/create-order", handlers.CreatePaymentOrder(rzp))
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminRequired(db, secret))
	{
		admin.GET("/dashboard", handlers.DashboardStats(db))

		admin.GET("/users", handlers.GetUsers(db))
		admin.GET("/users/:id", handlers.GetUser(db))
		admin.PUT("/users/:id", handlers.UpdateUser(db))
		admin.DELETE("/users/:id", handlers.DeleteUser(db))

		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.GET("/products/pending", handlers.GetPendingProducts(db))
		admin.PUT("/products/:id/approve", handlers.ApproveProduct(db))

		admin.GET("/orders", handlers.AdminGetOrders(db))
		admin.GET("/orders/:id", handlers.AdminGetOrder(db))
		admin.PUT("/orders/:id/status", handlers.AdminUpdateOrderStatus(db))

		admin.GET("/coupons", handlers.GetCoupons(db))
		admin.POST("/coupons", handlers.CreateCoupon(db))
		admin.PUT("/coupons/:id", handlers.UpdateCoupon(db))
		admin.DELETE("/coupons/:id", handlers.DeleteCoupon(db))

		admin.GET("/vendors", handlers.AdminGetVendors(db))
		admin.POST("/vendors", handlers.AdminCreateVendor(db, mail))
		admin.GET("/vendors/:id", handlers.AdminGetVendor(db))
		admin.PUT("/vendors/:id", handlers.AdminUpdateVendor(db))
		admin.DELETE("/vendors/:id", handlers.AdminDeleteVendor(db))
		admin.POST("/vendors/:id/categories", handlers.AssignVendorCategories(db))

		admin.GET("/settings", handlers.GetSettings())
		admin.PUT("/settings", handlers.UpdateSettings())

		admin.GET("/delivery-partners", handlers.AdminGetDeliveryPartners(db))
		admin.GET("/delivery-partners/:id", handlers.AdminGetDeliveryPartner(db))
		admin.PUT("/delivery-partners/:id", handlers.AdminUpdateDeliveryPartner(db))
		admin.DELETE("/delivery-partners/:id", handlers.AdminDeleteDeliveryPartner(db))
	}

	vendor := r.Group("/api/vendor")
	{
		vendor.POST("/register", handlers.VendorRegister(db, mail))
		vendor.POST("/login", handlers.VendorLogin(db, secret, accessTTL))

		gated := vendor.Group("")
		gated.Use(middleware.AuthGuard(db, secret, models.RoleVendor))
		{
			gated.GET("/profile", handlers.VendorProfile(db))
			gated.PUT("/profile", handlers.VendorUpdateProfile(db))
			gated.GET("/dashboard", handlers.VendorDashboardStats(db))

			gated.GET("/products", handlers.VendorListProducts(db))
			gated.POST("/products", handlers.VendorCreateProduct(db))
			gated.PUT("/products/:id", handlers.VendorUpdateProduct(db))
			gated.DELETE("/products/:id", handlers.VendorDeleteProduct(db))

			gated.GET("/orders", handlers.VendorOrders(db))
			gated.GET("/orders/:id", handlers.VendorOrderDetail(db))
			gated.PUT("/orders/:id/status", handlers.VendorUpdateOrderStatus(db))
			gated.DELETE("/orders/:id", handlers.VendorDeleteOrder(db))
		}
	}

	delivery := r.Group("/api/delivery")
	{
		delivery.POST("/register", middleware.UserAuth(secret), handlers.DeliveryRegister(db, mail))
		delivery.POST("/login", handlers.DeliveryLogin(db, secret, accessTTL))

		gated := delivery.Group("")
		gated.Use(middleware.AuthGuard(db, secret, models.RoleDelivery))
		{
			gated.GET("/profile", handlers.DeliveryProfile(db))
			gated.GET("/assignments", handlers.DeliveryAssignments(db))
			gated.POST("/assignments/:id/accept", handlers.AcceptAssignment(db))
			gated.POST("/assignments/:id/complete", handlers.CompleteDelivery(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
