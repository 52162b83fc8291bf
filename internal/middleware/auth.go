package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

var (
	errMissingToken = errors.New("missing token")
	errInvalidToken = errors.New("invalid token")
)

// AuthGuard validates the bearer token, loads the account and checks it
// against the allowed roles before the handler runs. The loaded user id
// is stored under "userID".
func AuthGuard(db *gorm.DB, secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ParseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, role := range allowedRoles {
				if user.Role == role {
					match = true
					break
				}
			}
			if !match {
				log.Println("[AUTH] [ERROR] role gate rejected user:", user.ID)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}

func AdminRequired(db *gorm.DB, secret string) gin.HandlerFunc {
	return AuthGuard(db, secret, models.RoleAdmin)
}

// VerifiedUserRequired rejects accounts that have not completed OTP
// email verification.
func VerifiedUserRequired(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ParseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !user.IsVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Email verification required"})
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}
