package handlers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"buildflow-api/models"
)

func TestCreatePaymentOrderMockMode(t *testing.T) {
	r, _ := setup(t)
	_, token := createUser(t, "customer", models.RoleCustomer)

	w := doJSON(t, r, http.MethodPost, "/api/payments/create-order", token, map[string]any{
		"amount": 62.00,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	decodeBody(t, w, &resp)
	if !strings.HasPrefix(resp.ID, "order_mock_") {
		t.Errorf("id = %q, want mock order id", resp.ID)
	}
	if resp.Amount != 6200 {
		t.Errorf("amount = %d paise, want 6200", resp.Amount)
	}
	if resp.Currency != "INR" {
		t.Errorf("currency = %q, want INR", resp.Currency)
	}
}

func TestVerifyPayment(t *testing.T) {
	r, env := setup(t)
	_, token := createUser(t, "customer", models.RoleCustomer)

	orderID, paymentID := "order_abc123", "pay_xyz789"
	mac := hmac.New(sha256.New, []byte(env.Cfg.RazorpaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	signature := hex.EncodeToString(mac.Sum(nil))

	w := doJSON(t, r, http.MethodPost, "/api/payments/verify", token, map[string]any{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("valid signature status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/payments/verify", token, map[string]any{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  "forged",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("forged signature status = %d, want 400", w.Code)
	}
}
