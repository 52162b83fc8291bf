package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"backend/internal/config"
	"backend/internal/mailer"
	"backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func issueToken(userID uint, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": strconv.FormatUint(uint64(userID), 10),
		"role":   role,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Register(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Email already registered")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		user := models.User{
			Email:    email,
			FullName: strings.TrimSpace(req.FullName),
			Phone:    strings.TrimSpace(req.Phone),
			Role:     models.RoleCustomer,
		}
		if err := user.SetPassword(req.Password); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hashing failed")
			return
		}
		otpCode := user.GenerateOTP(config.AppEnv.OTPTTL)

		if err := db.Create(&user).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		mail.SendOTP(user.Email, otpCode)

		log.Println("[AUTH] [INFO] user registered:", user.Email)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful. Please check your email for OTP verification.",
			"user_id": user.ID,
		})
	}
}

func VerifyOTP(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/verify-otp"

		var req OTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		if !user.VerifyOTP(req.OTP) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid or expired OTP")
			return
		}

		if err := db.Save(&user).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	}
}

func ResendOTP(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/resend-otp"

		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		otpCode := user.GenerateOTP(config.AppEnv.OTPTTL)
		if err := db.Save(&user).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		mail.SendOTP(user.Email, otpCode)

		c.JSON(http.StatusOK, gin.H{"message": "OTP resent successfully"})
	}
}

func Login(db *gorm.DB, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
		if err != nil || !user.CheckPassword(req.Password) {
			log.Println("[AUTH] [ERROR] login invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if !user.IsVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email first"})
			return
		}

		accessToken, err := issueToken(user.ID, user.Role, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"access_token": accessToken,
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"role":      user.Role,
			},
		})
	}
}

// ForgotPassword never reveals whether the email exists.
func ForgotPassword(db *gorm.DB, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		response := gin.H{"message": "If email exists, password reset OTP has been sent"}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			c.JSON(http.StatusOK, response)
			return
		}

		otpCode := user.GenerateOTP(config.AppEnv.OTPTTL)
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusOK, response)
			return
		}

		mail.SendPasswordReset(user.Email, otpCode)
		c.JSON(http.StatusOK, response)
	}
}

func ResetPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/reset-password"

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		if !user.VerifyOTP(req.OTP) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid or expired OTP")
			return
		}

		if err := user.SetPassword(req.NewPassword); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hashing failed")
			return
		}

		if err := db.Save(&user).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	}
}

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"full_name":   user.FullName,
			"phone":       user.Phone,
			"role":        user.Role,
			"is_verified": user.IsVerified,
			"created_at":  user.CreatedAt,
		})
	}
}

func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/auth/profile"

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		var req struct {
			FullName string `json:"full_name"`
			Phone    string `json:"phone"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if strings.TrimSpace(req.FullName) != "" {
			user.FullName = strings.TrimSpace(req.FullName)
		}
		if strings.TrimSpace(req.Phone) != "" {
			user.Phone = strings.TrimSpace(req.Phone)
		}

		if err := db.Save(&user).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully",
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"phone":     user.Phone,
			},
		})
	}
}

// purgeUserRows removes everything hanging off an account: orders with
// their line items, devices with their readings, cart and addresses.
// SQLite does not enforce the declared cascades, so the rows go
// explicitly inside the caller's transaction.
func purgeUserRows(tx *gorm.DB, userID uint) error {
	orderIDs := tx.Model(&models.Order{}).Select("id").Where("user_id = ?", userID)
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
		return err
	}
	deviceIDs := tx.Model(&models.IoTDevice{}).Select("id").Where("user_id = ?", userID)
	if err := tx.Where("device_id IN (?)", deviceIDs).Delete(&models.SensorData{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.IoTDevice{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&models.Address{}).Error
}

// DeleteAccount removes the account and everything hanging off it.
func DeleteAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/auth/account"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := purgeUserRows(tx, userID); err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to delete account")
			return
		}

		log.Println("[AUTH] [INFO] account deleted:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}
