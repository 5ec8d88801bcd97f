package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type CreatePaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentOrder registers a payment order with the gateway. With mock
// keys configured no external call happens; a fake order id comes back so the
// checkout flow stays testable offline.
func (e *Env) CreatePaymentOrder(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Gateway wants minor units (paise)
	amount := int64(math.Round(req.Amount * 100))

	if strings.Contains(e.Cfg.RazorpayKeyID, "mock") {
		c.JSON(http.StatusOK, gin.H{
			"id":       fmt.Sprintf("order_mock_%d", time.Now().UnixMilli()),
			"amount":   amount,
			"currency": "INR",
		})
		return
	}

	gatewayOrder, err := createGatewayOrder(c.Request.Context(), e.Cfg, amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment order"})
		return
	}
	c.JSON(http.StatusOK, gatewayOrder)
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment checks the gateway's HMAC-SHA256 signature over
// "orderId|paymentId" with the shared secret.
func (e *Env) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mac := hmac.New(sha256.New, []byte(e.Cfg.RazorpaySecret))
	mac.Write([]byte(req.OrderID + "|" + req.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if hmac.Equal([]byte(expected), []byte(req.Signature)) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment verified"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "Invalid signature"})
}
