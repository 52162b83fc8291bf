package handlers

import (
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"

	"backend/internal/config"
)

/* =========================
   DTOs
========================= */

type CreatePaymentOrderRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

/* =========================
   HANDLERS
========================= */

// GetPaymentKey hands the publishable key to the client; the secret
// never leaves the server.
func GetPaymentKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": config.AppEnv.RazorpayKeyID})
	}
}

// CreatePaymentOrder registers an order with Razorpay. Amounts arrive
// in rupees and go across the wire in paise.
func CreatePaymentOrder(client *razorpay.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payments/create-order"
		defer handlePanic(c, route)

		var req CreatePaymentOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		currency := req.Currency
		if currency == "" {
			currency = "INR"
		}
		receipt := req.Receipt
		if receipt == "" {
			receipt = "order_rcpt_1"
		}

		data := map[string]interface{}{
			"amount":   int(math.Round(req.Amount * 100)),
			"currency": currency,
			"receipt":  receipt,
		}

		order, err := client.Order.Create(data, nil)
		if err != nil {
			log.Printf("[PAYMENT] [ERROR] create order failed: %v", err)
			respondWithError(c, http.StatusBadGateway, route, "Failed to create payment order")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order": order,
			"key":   config.AppEnv.RazorpayKeyID,
		})
	}
}
